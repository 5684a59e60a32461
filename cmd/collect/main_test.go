package main

import (
	"errors"
	"testing"

	"github.com/jessevdk/go-flags"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOptions(t *testing.T) {
	opts, err := parseOptions(nil)
	require.NoError(t, err)
	assert.Empty(t, opts.Source)
	assert.False(t, opts.Keywords)

	opts, err = parseOptions([]string{"--source", "BBC News"})
	require.NoError(t, err)
	assert.Equal(t, "BBC News", opts.Source)

	opts, err = parseOptions([]string{"-k"})
	require.NoError(t, err)
	assert.True(t, opts.Keywords)
}

func TestParseOptionsErrors(t *testing.T) {
	_, err := parseOptions([]string{"-s", "CNN", "--keywords"})
	assert.ErrorIs(t, err, errExclusive)

	_, err = parseOptions([]string{"--bogus"})
	var flagsErr *flags.Error
	require.True(t, errors.As(err, &flagsErr))
	assert.Equal(t, flags.ErrUnknownFlag, flagsErr.Type)

	_, err = parseOptions([]string{"--help"})
	require.True(t, errors.As(err, &flagsErr))
	assert.Equal(t, flags.ErrHelp, flagsErr.Type)
}
