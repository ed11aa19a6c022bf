// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package unarchive_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/hashicorp/go-unarchive"
	"github.com/hashicorp/go-unarchive/internal/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// createSource writes a dummy archive
func createSource(t *testing.T) string {
	t.Helper()
	src := filepath.Join(t.TempDir(), "archive.zip")
	require.NoError(t, os.WriteFile(src, []byte("PK"), 0644))
	return src
}

func TestValidate(t *testing.T) {
	src := createSource(t)
	existingDir := t.TempDir()
	missing := filepath.Join(t.TempDir(), "missing")

	cases := []struct {
		name          string
		source        string
		destDirectory string
		destFile      string
		noDriver      bool
		expectError   error
		expectField   string
		expectDir     string
		expectFile    string
	}{
		{
			name:        "no driver",
			source:      src,
			destFile:    missing,
			noDriver:    true,
			expectError: unarchive.ErrNoDriver,
			expectField: "driver",
		},
		{
			name:          "no source",
			destDirectory: existingDir,
			expectError:   unarchive.ErrSourceNotDefined,
			expectField:   "sourceFile",
		},
		{
			name:          "source is a directory",
			source:        existingDir,
			destDirectory: existingDir,
			expectError:   unarchive.ErrSourceIsDirectory,
			expectField:   "sourceFile",
		},
		{
			name:          "source does not exist",
			source:        missing,
			destDirectory: existingDir,
			expectError:   unarchive.ErrSourceNotFound,
			expectField:   "sourceFile",
		},
		{
			name:        "no destination",
			source:      src,
			expectError: unarchive.ErrDestinationNotDefined,
			expectField: "destination",
		},
		{
			name:          "both destinations",
			source:        src,
			destDirectory: existingDir,
			destFile:      missing,
			expectError:   unarchive.ErrAmbiguousDestination,
			expectField:   "destination",
		},
		{
			name:          "existing destination directory",
			source:        src,
			destDirectory: existingDir,
			expectDir:     existingDir,
		},
		{
			name:          "missing destination directory becomes a file",
			source:        src,
			destDirectory: missing,
			expectFile:    missing,
		},
		{
			name:       "destination file",
			source:     src,
			destFile:   missing,
			expectFile: missing,
		},
		{
			name:      "destination file that is a directory becomes a directory",
			source:    src,
			destFile:  existingDir,
			expectDir: existingDir,
		},
		{
			name:          "existing file as destination directory becomes a file",
			source:        src,
			destDirectory: src,
			expectFile:    src,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var d unarchive.Driver
			if !tc.noDriver {
				d = mocks.NewMockDriver(gomock.NewController(t))
			}
			u := unarchive.NewForSource(d, tc.source, nil)
			u.SetDestDirectory(tc.destDirectory)
			u.SetDestFile(tc.destFile)

			res, err := u.Validate()
			if tc.expectError != nil {
				require.Error(t, err)
				assert.Nil(t, res)
				assert.ErrorIs(t, err, tc.expectError)
				var ce *unarchive.ConfigurationError
				require.ErrorAs(t, err, &ce)
				assert.Equal(t, tc.expectField, ce.Field)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.source, res.SourceFile)
			assert.Equal(t, tc.expectDir, res.DestDirectory)
			assert.Equal(t, tc.expectFile, res.DestFile)
			assert.Equal(t, len(tc.expectDir) > 0, res.IsDirectory())

			// validation never touches the configuration
			assert.Equal(t, tc.destDirectory, u.DestDirectory())
			assert.Equal(t, tc.destFile, u.DestFile())
		})
	}
}

func TestValidateIsIdempotent(t *testing.T) {
	src := createSource(t)
	dst := filepath.Join(t.TempDir(), "out")

	u := unarchive.NewForSource(mocks.NewMockDriver(gomock.NewController(t)), src, nil)
	u.SetDestDirectory(dst)

	first, err := u.Validate()
	require.NoError(t, err)
	second, err := u.Validate()
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, dst, first.Destination())

	// once the directory exists, the same configuration resolves to it
	require.NoError(t, os.Mkdir(dst, 0755))
	third, err := u.Validate()
	require.NoError(t, err)
	assert.True(t, third.IsDirectory())
	assert.Equal(t, dst, third.Destination())
}
