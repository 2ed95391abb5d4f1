package env

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type slackCfg struct {
	Token   string        `env:"SLACK_DISCOVERY_TOKEN,required" secret:"true"`
	Timeout time.Duration `env:"SLACK_HTTP_TIMEOUT"`
	RPM     int           `env:"SLACK_REQUESTS_PER_MINUTE"`
}

type listenerCfg struct {
	Interval float64 `env:"POLLING_INTERVAL_SEC"`
	Archive  bool    `env:"ENABLE_ARCHIVE"`
	Unset    string  `env:"UNSET_VALUE"`
	internal string
}

func TestMarshalEnv(t *testing.T) {
	out, err := MarshalEnv(
		&slackCfg{Token: "xoxp-secret", Timeout: 30 * time.Second, RPM: 50},
		listenerCfg{Interval: 2.1, Archive: true, internal: "x"},
	)
	require.NoError(t, err)

	assert.Equal(t, "SLACK_DISCOVERY_TOKEN=********\n"+
		"SLACK_HTTP_TIMEOUT=30s\n"+
		"SLACK_REQUESTS_PER_MINUTE=50\n"+
		"POLLING_INTERVAL_SEC=2.1\n"+
		"ENABLE_ARCHIVE=true\n", out)
}

func TestMarshalEnv_RejectsNonStruct(t *testing.T) {
	_, err := MarshalEnv("nope")
	assert.Error(t, err)
}

func TestMarshalEnv_Empty(t *testing.T) {
	out, err := MarshalEnv(&listenerCfg{})
	require.NoError(t, err)
	assert.Empty(t, out)
}
