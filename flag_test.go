package main

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var flagParseErrorTests = []struct {
	in     string
	flag   string
	reason string
}{
	{
		"unknown flag: --nope",
		"--nope",
		"Flag %s is missing.",
	},
	{
		"flag needs an argument: --api",
		"--api",
		"Flag %s needs an argument.",
	},
	{
		"flag needs an argument: 'm' in -m",
		"-m",
		"Flag %s needs an argument.",
	},
	{
		"flag needs an argument: --no-such-thing",
		"--no-such-thing",
		"Flag %s needs an argument.",
	},
	{
		"unknown shorthand flag: 'x' in -x",
		"-x",
		"Short flag %s is missing.",
	},
	{
		`invalid argument "20dd" for "--timeout" flag: time: unknown unit "dd" in duration "20dd"`,
		"--timeout",
		"Flag %s needs a positive duration, like 30s or 2m.",
	},
	{
		`invalid argument "sdfjasdl" for "--limit" flag: strconv.ParseInt: parsing "sdfjasdl": invalid syntax`,
		"--limit",
		"Flag %s has an invalid argument.",
	},
	{
		`invalid argument "nope" for "-q, --quiet" flag: strconv.ParseBool: parsing "nope": invalid syntax`,
		"-q, --quiet",
		"Flag %s has an invalid argument.",
	},
}

func TestFlagParseError(t *testing.T) {
	for _, tf := range flagParseErrorTests {
		t.Run(tf.in, func(t *testing.T) {
			err := newFlagParseError(errors.New(tf.in))
			require.Equal(t, tf.flag, err.Flag())
			require.Equal(t, tf.reason, err.ReasonFormat())
			require.Equal(t, tf.in, err.Error())
		})
	}

	t.Run("anything else", func(t *testing.T) {
		in := errors.New("bad flag syntax: ---")
		err := newFlagParseError(in)
		require.Empty(t, err.Flag())
		require.Equal(t, "bad flag syntax: ---", err.ReasonFormat())
		require.ErrorIs(t, err, in)
	})
}

func TestDurationFlag(t *testing.T) {
	var d time.Duration
	f := newDurationFlag(time.Minute, &d)
	require.Equal(t, time.Minute, d)
	require.Equal(t, "duration", f.Type())

	require.NoError(t, f.Set("30s"))
	require.Equal(t, 30*time.Second, d)
	require.Equal(t, "30s", f.String())

	require.NoError(t, f.Set("1d"))
	require.Equal(t, 24*time.Hour, d)

	require.Error(t, f.Set("nope"))
	require.ErrorIs(t, f.Set("0s"), errBadTimeout)
	require.Equal(t, 24*time.Hour, d)
}
