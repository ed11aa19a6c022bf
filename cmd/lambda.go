// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"log/slog"
	"os"

	"github.com/hashicorp/go-unarchive"
	"github.com/hashicorp/go-unarchive/selector"
	"github.com/hashicorp/go-unarchive/telemetry"
)

// Request is the JSON payload of the lambda function
type Request struct {
	Source            string   `json:"source"`
	Destination       string   `json:"destination"`
	Entry             string   `json:"entry,omitempty"`
	Include           []string `json:"include,omitempty"`
	Exclude           []string `json:"exclude,omitempty"`
	CreateDestination bool     `json:"createDestination,omitempty"`
	Overwrite         *bool    `json:"overwrite,omitempty"`
	Password          string   `json:"password,omitempty"`
}

// Response is returned by the lambda function
type Response struct {
	ID        string          `json:"id"`
	Telemetry *telemetry.Data `json:"telemetry"`
}

// errMissingSource is returned for requests without a source
var errMissingSource = errors.New("request has no source")

// Handle extracts the archive of req. It is the handler of the lambda function.
func Handle(ctx context.Context, req Request) (*Response, error) {
	if len(req.Source) == 0 {
		return nil, errMissingSource
	}

	d, err := newDriver("auto", req.Password)
	if err != nil {
		return nil, err
	}

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
	opts := []unarchive.ConfigOption{
		unarchive.WithCreateDestination(req.CreateDestination),
		unarchive.WithLogger(logger),
	}
	// without overwrite in the request the default of the configuration applies
	if req.Overwrite != nil {
		opts = append(opts, unarchive.WithOverwrite(*req.Overwrite))
	}
	u := unarchive.NewForSource(d, req.Source, unarchive.NewConfig(opts...))

	if len(req.Include) > 0 || len(req.Exclude) > 0 {
		p, err := selector.Patterns(selector.WithIncludes(req.Include...), selector.WithExcludes(req.Exclude...))
		if err != nil {
			return nil, err
		}
		u.AddSelector(p)
	}

	resp := &Response{}
	u.AddFinalizer(unarchive.FinalizerFunc(func(_ context.Context, x *unarchive.Extraction) error {
		resp.ID = x.ID
		resp.Telemetry = x.Telemetry
		return nil
	}))

	if len(req.Entry) > 0 {
		err = u.ExtractEntry(ctx, req.Entry, req.Destination)
	} else {
		u.SetDestDirectory(req.Destination)
		err = u.Extract(ctx)
	}
	if err != nil {
		return nil, err
	}
	return resp, nil
}
