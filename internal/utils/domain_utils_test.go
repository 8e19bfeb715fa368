package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNormalizeDomain(t *testing.T) {
	n := NewDomainNormalizer(zap.NewNop())

	tests := []struct {
		raw  string
		want string
	}{
		{"mailinator.com", "mailinator.com"},
		{"  Mailinator.COM.  ", "mailinator.com"},
		{"# comment", ""},
		{"", ""},
		{"   ", ""},
		{".", ""},
		{"bad domain.com", ""},
		{"user@mailinator.com", ""},
		{"caf\u00e9.test", "caf\u00e9.test"},
		{"cafe\u0301.TEST", "caf\u00e9.test"},
		{"\xff\xfe.test", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, n.NormalizeDomain(tt.raw), "%q", tt.raw)
	}
}

func TestNormalizeList(t *testing.T) {
	n := NewDomainNormalizer(zap.NewNop())

	got := n.NormalizeList([]string{"b.test", "A.test", "a.test.", "", "# x", "b.test"})
	assert.Equal(t, []string{"b.test", "a.test"}, got)
}

func TestParseList(t *testing.T) {
	n := NewDomainNormalizer(zap.NewNop())

	got, err := n.ParseList(strings.NewReader("# disposable\r\nmailinator.com\r\n\r\nYOPMAIL.com\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"mailinator.com", "yopmail.com"}, got)
}
