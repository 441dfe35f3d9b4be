package flagx

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterArgs(t *testing.T) {
	tests := []struct {
		name         string
		args         []string
		allowedFlags []string
		want         []string
	}{
		{
			name:         "short flag with separate value",
			args:         []string{"-c", "conf.json", "-a", "localhost"},
			allowedFlags: []string{"-c", "--config"},
			want:         []string{"-c", "conf.json"},
		},
		{
			name:         "long flag with equals",
			args:         []string{"--config=alt.json", "-a", "localhost"},
			allowedFlags: []string{"-c", "--config"},
			want:         []string{"--config=alt.json"},
		},
		{
			name:         "unknown flags and positionals ignored",
			args:         []string{"-x", "1", "--y=2", "verify"},
			allowedFlags: []string{"-c"},
			want:         []string{},
		},
		{
			name:         "flag followed by another flag keeps no value",
			args:         []string{"-s", "-t", "2"},
			allowedFlags: []string{"-s"},
			want:         []string{"-s"},
		},
		{
			name:         "server flags mixed with a command",
			args:         []string{"-s", "secret", "issue", "7", "alice", "-t", "2"},
			allowedFlags: []string{"-s", "-t"},
			want:         []string{"-s", "secret", "-t", "2"},
		},
		{
			name:         "empty args",
			args:         []string{},
			allowedFlags: []string{"-c"},
			want:         []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FilterArgs(tt.args, tt.allowedFlags))
		})
	}
}

func TestFilterSwitches(t *testing.T) {
	args := []string{"-k", "issue", "-m=false", "-s", "secret", "-x"}
	assert.Equal(t, []string{"-k", "-m=false"}, FilterSwitches(args, []string{"-k", "-m"}))
	assert.Equal(t, []string{}, FilterSwitches(nil, []string{"-k"}))
}

func TestPositionalArgs(t *testing.T) {
	tests := []struct {
		name       string
		args       []string
		valueFlags []string
		want       []string
	}{
		{
			name:       "value flags are skipped with their values",
			args:       []string{"-s", "key", "verify", "tok"},
			valueFlags: []string{"-s"},
			want:       []string{"verify", "tok"},
		},
		{
			name:       "equals form skipped",
			args:       []string{"--config=x.json", "adduser", "bob"},
			valueFlags: []string{"--config"},
			want:       []string{"adduser", "bob"},
		},
		{
			name:       "boolean flag does not consume next arg",
			args:       []string{"-k", "issue", "1", "bob"},
			valueFlags: []string{"-s"},
			want:       []string{"issue", "1", "bob"},
		},
		{
			name:       "double dash stops parsing",
			args:       []string{"-s", "key", "--", "verify", "-weird"},
			valueFlags: []string{"-s"},
			want:       []string{"verify", "-weird"},
		},
		{
			name:       "nothing left",
			args:       []string{"-s", "key"},
			valueFlags: []string{"-s"},
			want:       []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PositionalArgs(tt.args, tt.valueFlags))
		})
	}
}

func TestJsonConfigFlags(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	t.Run("short -c with value", func(t *testing.T) {
		os.Args = []string{"testbin", "-c", "/path/short.json"}
		assert.Equal(t, "/path/short.json", JsonConfigFlags())
	})

	t.Run("long -config with value", func(t *testing.T) {
		os.Args = []string{"testbin", "-config", "/path/long.json"}
		assert.Equal(t, "/path/long.json", JsonConfigFlags())
	})

	t.Run("unknown flags are ignored", func(t *testing.T) {
		os.Args = []string{"testbin", "-s", "secret", "-t", "2"}
		assert.Empty(t, JsonConfigFlags())
	})
}
