package shortcut

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		spec string
		want string
	}{
		{name: "default", spec: "CommandOrControl+Alt+D", want: "CommandOrControl+Alt+D"},
		{name: "lowercase aliases", spec: "ctrl+shift+k", want: "CommandOrControl+Shift+K"},
		{name: "reordered", spec: "Shift+Alt+Cmd+K", want: "CommandOrControl+Alt+Shift+K"},
		{name: "duplicate modifiers", spec: "Ctrl+Control+Meta+1", want: "CommandOrControl+1"},
		{name: "option alias", spec: "Option+F5", want: "Alt+F5"},
		{name: "space", spec: "CmdOrCtrl+space", want: "CommandOrControl+Space"},
		{name: "padded tokens", spec: "  alt + shift + x ", want: "Alt+Shift+X"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := Parse(tt.spec)
			require.NoError(t, err)
			assert.Equal(t, tt.want, d.String())
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		spec string
		want error
	}{
		{name: "empty", spec: "", want: ErrInvalidKey},
		{name: "no modifier", spec: "D", want: ErrNoModifier},
		{name: "modifier only", spec: "Ctrl+Shift", want: ErrInvalidKey},
		{name: "two keys", spec: "Ctrl+A+B", want: ErrInvalidKey},
		{name: "unknown modifier", spec: "Hyper+A", want: ErrInvalidKey},
		{name: "missing key", spec: "Ctrl+", want: ErrInvalidKey},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.spec)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestDescriptorRoundTrip(t *testing.T) {
	d := MustParse("Shift+Ctrl+Alt+9")
	again, err := Parse(d.String())
	require.NoError(t, err)
	assert.Equal(t, d, again)

	text, err := d.MarshalText()
	require.NoError(t, err)
	var decoded Descriptor
	require.NoError(t, decoded.UnmarshalText(text))
	assert.Equal(t, d, decoded)
}

func TestDescriptorDisplay(t *testing.T) {
	assert.Equal(t, "⌘ + ⌥ + D", MustParse("CommandOrControl+Alt+D").Display())
	assert.Equal(t, "⌘ + ⇧ + Space", MustParse("Ctrl+Shift+Space").Display())
	assert.Equal(t, "", Descriptor{}.Display())
}

func TestNewRejectsModifierKey(t *testing.T) {
	_, err := New(Primary, "shift")
	assert.ErrorIs(t, err, ErrInvalidKey)

	_, err = New(0, "A")
	assert.ErrorIs(t, err, ErrNoModifier)
}
