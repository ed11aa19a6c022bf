// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package unarchive_test

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"strings"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/hashicorp/go-unarchive"
	"github.com/hashicorp/go-unarchive/internal/mocks"
	"github.com/hashicorp/go-unarchive/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// entry is a static unarchive.Resource
type entry struct {
	name string
}

func (e entry) Name() string       { return e.name }
func (e entry) Size() int64        { return 1 }
func (e entry) Mode() fs.FileMode  { return 0644 }
func (e entry) ModTime() time.Time { return time.Time{} }
func (e entry) IsDir() bool        { return false }
func (e entry) IsRegular() bool    { return true }
func (e entry) IsSymlink() bool    { return false }

// driverWithValidator combines the mocked interfaces
type driverWithValidator struct {
	*mocks.MockDriver
	*mocks.MockEntryValidator
}

// newTestUnarchiver returns a validated configuration with a mocked driver
func newTestUnarchiver(t *testing.T, opts ...unarchive.ConfigOption) (*unarchive.Unarchiver, *mocks.MockDriver, *gomock.Controller) {
	t.Helper()
	ctrl := gomock.NewController(t)
	d := mocks.NewMockDriver(ctrl)
	u := unarchive.NewForSource(d, createSource(t), unarchive.NewConfig(opts...))
	u.SetDestDirectory(t.TempDir())
	return u, d, ctrl
}

func TestExtractRunsDriverThenFinalizers(t *testing.T) {
	u, d, ctrl := newTestUnarchiver(t)
	f1 := mocks.NewMockFinalizer(ctrl)
	f2 := mocks.NewMockFinalizer(ctrl)
	u.SetFinalizers(f1, f2)

	var seen *unarchive.Extraction
	gomock.InOrder(
		d.EXPECT().ExtractAll(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, x *unarchive.Extraction) error {
			seen = x
			return nil
		}),
		f1.EXPECT().FinalizeExtraction(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, x *unarchive.Extraction) error {
			assert.Same(t, seen, x)
			assert.Same(t, u, x.Unarchiver())
			return nil
		}),
		f2.EXPECT().FinalizeExtraction(gomock.Any(), gomock.Any()).Return(nil),
	)

	require.NoError(t, u.Extract(context.Background()))
	require.NotNil(t, seen)
	assert.NotEmpty(t, seen.ID)
	assert.Equal(t, u.SourceFile(), seen.SourceFile)
	assert.Equal(t, u.DestDirectory(), seen.DestDirectory)
	assert.Empty(t, seen.DestFile)
	assert.Equal(t, int64(2), seen.Telemetry.FinalizersRun)
}

func TestExtractValidationFailureSkipsDriver(t *testing.T) {
	u, _, ctrl := newTestUnarchiver(t)
	f := mocks.NewMockFinalizer(ctrl)
	u.AddFinalizer(f)
	u.SetDestFile("also-a-file")

	// neither driver nor finalizer are expected to be called
	err := u.Extract(context.Background())
	require.Error(t, err)
	assert.True(t, unarchive.IsConfigurationError(err))
	assert.False(t, unarchive.IsExtractionError(err))
	assert.ErrorIs(t, err, unarchive.ErrAmbiguousDestination)
}

func TestExtractDriverFailureSkipsFinalizers(t *testing.T) {
	var td *telemetry.Data
	u, d, ctrl := newTestUnarchiver(t, unarchive.WithTelemetryHook(func(_ context.Context, data *telemetry.Data) {
		td = data
	}))
	u.AddFinalizer(mocks.NewMockFinalizer(ctrl))

	boom := errors.New("corrupt archive")
	d.EXPECT().ExtractAll(gomock.Any(), gomock.Any()).Return(boom)

	err := u.Extract(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)

	var ee *unarchive.ExtractionError
	require.ErrorAs(t, err, &ee)
	assert.Equal(t, "extract", ee.Op)
	assert.Equal(t, u.SourceFile(), ee.Archive)

	require.NotNil(t, td)
	assert.Equal(t, int64(1), td.ExtractionErrors)
	assert.Equal(t, boom, td.LastExtractionError)
}

func TestExtractKeepsDriverExtractionErrors(t *testing.T) {
	u, d, _ := newTestUnarchiver(t)
	driverErr := &unarchive.ExtractionError{Op: "extract", Entry: "a.txt", Err: unarchive.ErrUnsupportedFile}
	d.EXPECT().ExtractAll(gomock.Any(), gomock.Any()).Return(driverErr)

	err := u.Extract(context.Background())
	assert.Same(t, driverErr, err)
	assert.Equal(t, u.SourceFile(), driverErr.Archive)
	assert.Equal(t, "a.txt", driverErr.Entry)
}

func TestFinalizerChainFailFast(t *testing.T) {
	u, d, ctrl := newTestUnarchiver(t)
	boom := errors.New("disk full")

	first := mocks.NewMockFinalizer(ctrl)
	failing := mocks.NewMockFinalizer(ctrl)
	last := mocks.NewMockFinalizer(ctrl)
	u.SetFinalizers(first, failing, last)

	gomock.InOrder(
		d.EXPECT().ExtractAll(gomock.Any(), gomock.Any()).Return(nil),
		first.EXPECT().FinalizeExtraction(gomock.Any(), gomock.Any()).Return(nil),
		failing.EXPECT().FinalizeExtraction(gomock.Any(), gomock.Any()).Return(boom),
	)

	err := u.Extract(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)

	var ee *unarchive.ExtractionError
	require.ErrorAs(t, err, &ee)
	assert.Equal(t, "finalize", ee.Op)
	assert.True(t, strings.HasPrefix(ee.Finalizer, "#1 "), ee.Finalizer)
	assert.Contains(t, ee.Error(), "disk full")
}

func TestFinalizerName(t *testing.T) {
	u, d, _ := newTestUnarchiver(t)
	d.EXPECT().ExtractAll(gomock.Any(), gomock.Any()).Return(nil)
	u.AddFinalizer(unarchive.FinalizerFunc(func(context.Context, *unarchive.Extraction) error {
		return io.ErrClosedPipe
	}))

	var ee *unarchive.ExtractionError
	require.ErrorAs(t, u.Extract(context.Background()), &ee)
	assert.Equal(t, "#0 unarchive.FinalizerFunc", ee.Finalizer)
}

func TestSelectionPipeline(t *testing.T) {
	boom := errors.New("selector failed")

	cases := []struct {
		name        string
		results     []bool
		failAt      int
		expect      bool
		expectCalls int
		expectError bool
	}{
		{name: "no selectors", expect: true},
		{name: "all select", results: []bool{true, true, true}, failAt: -1, expect: true, expectCalls: 3},
		{name: "second rejects", results: []bool{true, false, true}, failAt: -1, expect: false, expectCalls: 2},
		{name: "first rejects", results: []bool{false, true}, failAt: -1, expect: false, expectCalls: 1},
		{name: "second fails", results: []bool{true, true, true}, failAt: 1, expectCalls: 2, expectError: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			u, d, _ := newTestUnarchiver(t)

			calls := 0
			for i, result := range tc.results {
				i, result := i, result
				u.AddSelector(unarchive.SelectorFunc(func(unarchive.Resource) (bool, error) {
					calls++
					if i == tc.failAt {
						return false, boom
					}
					return result, nil
				}))
			}

			var selected bool
			var selectErr error
			d.EXPECT().ExtractAll(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, x *unarchive.Extraction) error {
				selected, selectErr = x.IsSelected("dir/a.txt", entry{name: "dir/a.txt"})
				return selectErr
			})

			err := u.Extract(context.Background())
			assert.Equal(t, tc.expectCalls, calls)
			if tc.expectError {
				require.Error(t, err)
				assert.ErrorIs(t, err, boom)
				var ee *unarchive.ExtractionError
				require.ErrorAs(t, err, &ee)
				assert.Equal(t, "select", ee.Op)
				assert.Equal(t, "dir/a.txt", ee.Entry)
				assert.Equal(t, u.SourceFile(), ee.Archive)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expect, selected)
		})
	}
}

func TestSelectorMock(t *testing.T) {
	u, d, ctrl := newTestUnarchiver(t)
	s := mocks.NewMockSelector(ctrl)
	u.AddSelector(s)

	s.EXPECT().IsSelected(entry{name: "a"}).Return(false, nil)
	d.EXPECT().ExtractAll(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, x *unarchive.Extraction) error {
		ok, err := x.IsSelected("a", entry{name: "a"})
		assert.False(t, ok)
		assert.Equal(t, int64(1), x.Telemetry.SelectorMismatches)
		return err
	})
	require.NoError(t, u.Extract(context.Background()))
}

func TestContentFilter(t *testing.T) {
	cases := []struct {
		name        string
		setFilter   bool
		include     bool
		filterErr   error
		expect      bool
		expectError bool
	}{
		{name: "no filter", expect: true},
		{name: "include", setFilter: true, include: true, expect: true},
		{name: "veto", setFilter: true, include: false, expect: false},
		{name: "failure", setFilter: true, filterErr: io.ErrUnexpectedEOF, expectError: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			u, d, ctrl := newTestUnarchiver(t)
			if tc.setFilter {
				f := mocks.NewMockContentFilter(ctrl)
				f.EXPECT().Include(gomock.Any(), "a.txt").Return(tc.include, tc.filterErr)
				u.SetContentFilter(f)
			}

			d.EXPECT().ExtractAll(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, x *unarchive.Extraction) error {
				assert.Equal(t, tc.setFilter, x.HasContentFilter())
				ok, err := x.Include(strings.NewReader("content"), "a.txt")
				assert.Equal(t, tc.expect, ok)
				return err
			})

			err := u.Extract(context.Background())
			if tc.expectError {
				var ee *unarchive.ExtractionError
				require.ErrorAs(t, err, &ee)
				assert.Equal(t, "filter", ee.Op)
				assert.Equal(t, "a.txt", ee.Entry)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestExtractEntry(t *testing.T) {
	u, d, ctrl := newTestUnarchiver(t)
	f := mocks.NewMockFinalizer(ctrl)
	u.AddFinalizer(f)
	out := t.TempDir()

	gomock.InOrder(
		d.EXPECT().ExtractEntry(gomock.Any(), gomock.Any(), "dir/a.txt", out).DoAndReturn(func(_ context.Context, x *unarchive.Extraction, path, dst string) error {
			assert.Equal(t, "dir/a.txt", x.Entry)
			assert.Equal(t, out, x.DestDirectory)
			return nil
		}),
		f.EXPECT().FinalizeExtraction(gomock.Any(), gomock.Any()).Return(nil),
	)

	require.NoError(t, u.ExtractEntry(context.Background(), "dir/a.txt", out))
}

func TestExtractEntrySkipsWholeArchiveValidation(t *testing.T) {
	ctrl := gomock.NewController(t)
	d := mocks.NewMockDriver(ctrl)

	// neither source nor destination are checked by the orchestrator
	u := unarchive.New(d, nil)
	u.SetDestDirectory("a")
	u.SetDestFile("b")
	d.EXPECT().ExtractEntry(gomock.Any(), gomock.Any(), "x", "out").Return(nil)
	require.NoError(t, u.ExtractEntry(context.Background(), "x", "out"))
}

func TestExtractEntryValidator(t *testing.T) {
	invalid := errors.New("invalid path")

	cases := []struct {
		name        string
		validateErr error
		expectCall  bool
	}{
		{name: "valid", expectCall: true},
		{name: "invalid", validateErr: invalid},
		{name: "invalid with configuration error", validateErr: &unarchive.ConfigurationError{Field: "path", Err: invalid}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			d := driverWithValidator{mocks.NewMockDriver(ctrl), mocks.NewMockEntryValidator(ctrl)}
			u := unarchive.NewForSource(d, createSource(t), nil)

			d.MockEntryValidator.EXPECT().ValidateEntry("x", "out").Return(tc.validateErr)
			if tc.expectCall {
				d.MockDriver.EXPECT().ExtractEntry(gomock.Any(), gomock.Any(), "x", "out").Return(nil)
			}

			err := u.ExtractEntry(context.Background(), "x", "out")
			if !tc.expectCall {
				require.Error(t, err)
				assert.True(t, unarchive.IsConfigurationError(err))
				assert.ErrorIs(t, err, invalid)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestExtractEntryDriverFailure(t *testing.T) {
	u, d, ctrl := newTestUnarchiver(t)
	u.AddFinalizer(mocks.NewMockFinalizer(ctrl))
	d.EXPECT().ExtractEntry(gomock.Any(), gomock.Any(), "x", "out").Return(unarchive.ErrEntryNotFound)

	err := u.ExtractEntry(context.Background(), "x", "out")
	var ee *unarchive.ExtractionError
	require.ErrorAs(t, err, &ee)
	assert.Equal(t, "x", ee.Entry)
	assert.ErrorIs(t, err, unarchive.ErrEntryNotFound)
}

func TestNoDriver(t *testing.T) {
	u := unarchive.New(nil, nil)
	err := u.ExtractEntry(context.Background(), "x", "out")
	assert.ErrorIs(t, err, unarchive.ErrNoDriver)
	assert.True(t, unarchive.IsConfigurationError(err))
}

func TestConfigurationSurface(t *testing.T) {
	ctrl := gomock.NewController(t)
	d := mocks.NewMockDriver(ctrl)
	u := unarchive.New(d, nil)

	assert.Same(t, d, u.Driver())
	assert.NotNil(t, u.Config())
	assert.Empty(t, u.Selectors())
	assert.Empty(t, u.Finalizers())
	assert.Nil(t, u.ContentFilter())

	s := mocks.NewMockSelector(ctrl)
	f := mocks.NewMockFinalizer(ctrl)
	u.AddSelector(s)
	u.AddFinalizer(f)
	u.SetSourceFile("a.zip")
	assert.Equal(t, []unarchive.Selector{s}, u.Selectors())
	assert.Equal(t, []unarchive.Finalizer{f}, u.Finalizers())
	assert.Equal(t, "a.zip", u.SourceFile())

	u.SetSelectors()
	u.SetFinalizers()
	assert.Empty(t, u.Selectors())
	assert.Empty(t, u.Finalizers())
}
