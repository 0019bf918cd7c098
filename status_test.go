package lwp

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMakeStatus(t *testing.T) {
	tests := []struct {
		name       string
		state      Status
		code       int
		terminated bool
		wantCode   int
		str        string
	}{
		{"live", StatusLive, 0, false, 0, "live"},
		{"terminated zero", StatusTerminated, 0, true, 0, "terminated(0)"},
		{"terminated seven", StatusTerminated, 7, true, 7, "terminated(7)"},
		{"low byte only", StatusTerminated, 0x1234, true, 0x34, "terminated(52)"},
		{"negative", StatusTerminated, -1, true, 0xFF, "terminated(255)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := MakeStatus(tt.state, tt.code)
			assert.Equal(t, tt.terminated, s.Terminated())
			assert.Equal(t, tt.wantCode, s.Code())
			assert.Equal(t, tt.str, s.String())
		})
	}
}

func TestStatus_Layout(t *testing.T) {
	assert.Equal(t, Status(0x107), MakeStatus(StatusTerminated, 7))
}
