package core

import (
	"context"
	"errors"
	"fmt"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestResolveSortsByPreference(t *testing.T) {
	lookup := &fakeMXLookup{records: []*net.MX{
		{Host: "b.mx.", Pref: 20},
		{Host: "a.mx.", Pref: 10},
		{Host: "c.mx", Pref: 30},
	}}

	result := NewDomainResolver(lookup, zap.NewNop()).Resolve(context.Background(), "example.com")

	assert.True(t, result.Valid)
	assert.Equal(t, MsgDomainValid, result.Message)
	assert.Equal(t, []string{"a.mx", "b.mx", "c.mx"}, result.MXRecords)
	assert.Empty(t, result.Error)
}

func TestResolveKeepsOrderForEqualPreference(t *testing.T) {
	lookup := &fakeMXLookup{records: []*net.MX{
		{Host: "second.mx", Pref: 10},
		{Host: "first.mx", Pref: 5},
		{Host: "third.mx", Pref: 10},
	}}

	result := NewDomainResolver(lookup, zap.NewNop()).Resolve(context.Background(), "example.com")

	assert.Equal(t, []string{"first.mx", "second.mx", "third.mx"}, result.MXRecords)
}

func TestResolveNoRecords(t *testing.T) {
	result := NewDomainResolver(&fakeMXLookup{}, zap.NewNop()).Resolve(context.Background(), "example.com")

	assert.False(t, result.Valid)
	assert.Equal(t, MsgDomainNoMX, result.Message)
	assert.NotNil(t, result.MXRecords)
	assert.Empty(t, result.MXRecords)
}

func TestResolveNullMX(t *testing.T) {
	lookup := &fakeMXLookup{records: []*net.MX{{Host: ".", Pref: 0}}}

	result := NewDomainResolver(lookup, zap.NewNop()).Resolve(context.Background(), "example.com")

	assert.False(t, result.Valid)
	assert.Equal(t, MsgDomainNoMX, result.Message)
}

func TestResolveFailureCodes(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code string
	}{
		{"nxdomain", &net.DNSError{Err: "no such host", Name: "example.com", IsNotFound: true}, DNSErrNotFound},
		{"resolver timeout", &net.DNSError{Err: "i/o timeout", IsTimeout: true}, DNSErrTimeout},
		{"servfail", &net.DNSError{Err: "server misbehaving", IsTemporary: true}, DNSErrTemporary},
		{"deadline", fmt.Errorf("lookup: %w", context.DeadlineExceeded), DNSErrTimeout},
		{"cancelled", context.Canceled, DNSErrCancelled},
		{"other", errors.New("boom"), DNSErrLookup},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lookup := &fakeMXLookup{err: tt.err}
			result := NewDomainResolver(lookup, zap.NewNop()).Resolve(context.Background(), "example.com")

			assert.False(t, result.Valid)
			assert.Equal(t, MsgDomainLookupFailed, result.Message)
			assert.Equal(t, tt.code, result.Error)
			assert.Empty(t, result.MXRecords)
		})
	}
}
