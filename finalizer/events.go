// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package finalizer

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchevents"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchevents/types"
	"github.com/hashicorp/go-unarchive"
	"github.com/hashicorp/go-unarchive/telemetry"
)

const (
	// EventSource is the source of the published events
	EventSource = "hashicorp.go-unarchive"

	// EventDetailType is the detail type of the published events
	EventDetailType = "Extraction Finished"
)

// EventsAPI is the part of the CloudWatch Events client used by [Events].
type EventsAPI interface {
	PutEvents(ctx context.Context, params *cloudwatchevents.PutEventsInput, optFns ...func(*cloudwatchevents.Options)) (*cloudwatchevents.PutEventsOutput, error)
}

// EventDetail is the detail of a published event.
type EventDetail struct {
	ID          string          `json:"id"`
	Source      string          `json:"source"`
	Destination string          `json:"destination"`
	Entry       string          `json:"entry,omitempty"`
	Telemetry   *telemetry.Data `json:"telemetry"`
}

// Events publishes an event to an EventBridge (CloudWatch Events) bus after every
// extraction.
type Events struct {
	client EventsAPI
	bus    string
}

// NewEvents creates a finalizer that publishes to bus with client. An empty bus
// uses the default event bus.
func NewEvents(client EventsAPI, bus string) *Events {
	return &Events{client: client, bus: bus}
}

// NewEventsFromConfig creates a finalizer with a client from the default AWS
// configuration chain. An empty region keeps the region of the environment.
func NewEventsFromConfig(ctx context.Context, region string, bus string) (*Events, error) {
	var opts []func(*config.LoadOptions) error
	if len(region) > 0 {
		opts = append(opts, config.WithRegion(region))
	}
	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("cannot load aws configuration: %w", err)
	}
	return NewEvents(cloudwatchevents.NewFromConfig(cfg), bus), nil
}

// FinalizeExtraction implements [unarchive.Finalizer].
func (e *Events) FinalizeExtraction(ctx context.Context, x *unarchive.Extraction) error {
	detail, err := json.Marshal(EventDetail{
		ID:          x.ID,
		Source:      x.SourceFile,
		Destination: destination(x),
		Entry:       x.Entry,
		Telemetry:   x.Telemetry,
	})
	if err != nil {
		return fmt.Errorf("cannot encode event: %w", err)
	}

	entry := types.PutEventsRequestEntry{
		Source:     aws.String(EventSource),
		DetailType: aws.String(EventDetailType),
		Detail:     aws.String(string(detail)),
		Resources:  []string{},
		Time:       aws.Time(time.Now()),
	}
	if len(e.bus) > 0 {
		entry.EventBusName = aws.String(e.bus)
	}

	out, err := e.client.PutEvents(ctx, &cloudwatchevents.PutEventsInput{
		Entries: []types.PutEventsRequestEntry{entry},
	})
	if err != nil {
		return fmt.Errorf("cannot publish event: %w", err)
	}
	for _, r := range out.Entries {
		if r.ErrorCode != nil {
			return fmt.Errorf("event rejected: %s: %s", aws.ToString(r.ErrorCode), aws.ToString(r.ErrorMessage))
		}
	}
	return nil
}

// String implements fmt.Stringer.
func (e *Events) String() string {
	if len(e.bus) == 0 {
		return "events(default)"
	}
	return "events(" + e.bus + ")"
}
