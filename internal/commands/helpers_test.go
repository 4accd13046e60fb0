package commands_test

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/require"
)

var txnID = regexp.MustCompile(`TXN-\d+-\d+`)

func firstTransactionID(t *testing.T, out string) string {
	t.Helper()
	id := txnID.FindString(out)
	require.NotEmpty(t, id, "no transaction id in:\n%s", out)
	return id
}
