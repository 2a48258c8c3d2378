package config

import (
	"flag"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	flag.CommandLine = flag.NewFlagSet(os.Args[0], flag.PanicOnError)
	os.Args = []string{"cmd",
		"-a", "127.0.0.1:9090", "-d", "db", "-s", "secret",
		"-t", "20", "-r", "10080", "-w", "5", "-l", "12",
		"-u", "user", "-p", "password", "-b", "bucket", "-g", "us-west-1", "-e", "http://endpoint",
	}

	config := &Config{}
	require.NotPanics(t, func() { parseFlags(config) })

	assert.Equal(t, "127.0.0.1:9090", config.EndpointAddrHTTP)
	assert.Equal(t, "db", config.DatabaseDSN)
	assert.Equal(t, "secret", config.SecretKey)
	assert.Equal(t, 20*time.Minute, config.AccessTokenValidityDuration)
	assert.Equal(t, 10080*time.Minute, config.RefreshTokenValidityDuration)
	assert.Equal(t, 5*time.Second, config.StoreTimeout)
	assert.Equal(t, 12, config.MinPasswordLength)
	assert.Equal(t, "user", config.S3RootUser)
	assert.Equal(t, "password", config.S3RootPassword)
	assert.Equal(t, "bucket", config.S3Bucket)
	assert.Equal(t, "us-west-1", config.S3Region)
	assert.Equal(t, "http://endpoint", config.S3BaseEndpoint)
}

func TestParseFlags_DefaultsPreserved(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	flag.CommandLine = flag.NewFlagSet(os.Args[0], flag.PanicOnError)
	os.Args = []string{"cmd"}

	config := &Config{}
	config.LoadDefaults()
	parseFlags(config)

	assert.Equal(t, ":8080", config.EndpointAddrHTTP)
	assert.Equal(t, 15*time.Minute, config.AccessTokenValidityDuration)
	assert.Equal(t, 7*24*time.Hour, config.RefreshTokenValidityDuration)
}
