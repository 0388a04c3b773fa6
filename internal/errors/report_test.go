package errors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrapReportRoundTrips(t *testing.T) {
	rep := New("subtype", Subtyping, "K is not a subtype of Eq", nil).
		WithData("left", "Eq").
		WithData("right", "K").
		WithFix("register a glue adapter for K", 0.6)

	wrapped := WrapReport(rep)

	var re *ReportError
	require.True(t, errors.As(wrapped, &re))
	assert.Equal(t, rep, re.Rep)
	assert.Contains(t, wrapped.Error(), Subtyping)
}

func TestAsReportFailsForPlainErrors(t *testing.T) {
	_, ok := AsReport(errors.New("boom"))
	assert.False(t, ok)
}

func TestReportToJSONIsDeterministic(t *testing.T) {
	rep := New("registrar", TooManyArgs, "too many positional arguments", nil)
	first, err := rep.ToJSON(true)
	require.NoError(t, err)
	second, err := rep.ToJSON(true)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestGetErrorInfoKnownCode(t *testing.T) {
	info, ok := GetErrorInfo(Subtyping)
	require.True(t, ok)
	assert.Equal(t, "subtyping", info.Category)
}
