package cw

import (
	"context"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs/types"
)

// maxStreamsPerCall is the FilterLogEvents limit on logStreamNames.
const maxStreamsPerCall = 100

// Event is one log event as returned by the API.
type Event struct {
	Timestamp int64 // milliseconds since epoch
	Message   string
	Stream    string
}

// Query describes one polling iteration's fetch.
type Query struct {
	Group     string
	StartTime int64 // lower bound, milliseconds since epoch
	Streams   []string
	Pattern   string
}

// BuildFilterPattern assembles a server-side filter expression: each filter
// token becomes an OR term ("?tok"), each exclude token a NOT term ("-tok").
// Empty input yields an empty pattern, meaning no server-side filtering.
func BuildFilterPattern(filterTokens, excludeTokens []string) string {
	terms := make([]string, 0, len(filterTokens)+len(excludeTokens))
	for _, t := range filterTokens {
		terms = append(terms, "?"+t)
	}
	for _, t := range excludeTokens {
		terms = append(terms, "-"+t)
	}
	return strings.Join(terms, " ")
}

// FetchEvents retrieves all events in [q.StartTime, now] for the log group.
// When a stream allowlist larger than the per-call cap is given, it is split
// into chunks and the chunk results concatenated. The result is the unordered
// union across chunks and pages; deduplication across polling iterations is
// the caller's responsibility via its time window.
func (c *Client) FetchEvents(ctx context.Context, q Query) ([]Event, error) {
	if len(q.Streams) == 0 {
		return c.fetchChunk(ctx, q, nil)
	}

	var all []Event
	for _, chunk := range chunkStrings(q.Streams, maxStreamsPerCall) {
		events, err := c.fetchChunk(ctx, q, chunk)
		if err != nil {
			return nil, err
		}
		all = append(all, events...)
	}
	return all, nil
}

// fetchChunk pages through FilterLogEvents for one stream chunk (or the whole
// group when streams is nil) until the API stops returning a token.
func (c *Client) fetchChunk(ctx context.Context, q Query, streams []string) ([]Event, error) {
	var (
		events    []Event
		nextToken *string
	)

	for {
		input := &cloudwatchlogs.FilterLogEventsInput{
			LogGroupName: aws.String(q.Group),
			StartTime:    aws.Int64(q.StartTime),
			NextToken:    nextToken,
		}
		if q.Pattern != "" {
			input.FilterPattern = aws.String(q.Pattern)
		}
		if len(streams) > 0 {
			input.LogStreamNames = streams
		}

		out, err := c.api.FilterLogEvents(ctx, input)
		if err != nil {
			return nil, upstreamErr("filter log events", err)
		}

		for _, e := range out.Events {
			events = append(events, Event{
				Timestamp: aws.ToInt64(e.Timestamp),
				Message:   aws.ToString(e.Message),
				Stream:    aws.ToString(e.LogStreamName),
			})
		}

		if out.NextToken == nil {
			return events, nil
		}
		nextToken = out.NextToken
	}
}

// ListStreams returns all stream names in the log group, most recent event
// first.
func (c *Client) ListStreams(ctx context.Context, group string) ([]string, error) {
	var (
		names     []string
		nextToken *string
	)

	for {
		out, err := c.api.DescribeLogStreams(ctx, &cloudwatchlogs.DescribeLogStreamsInput{
			LogGroupName: aws.String(group),
			OrderBy:      types.OrderByLastEventTime,
			Descending:   aws.Bool(true),
			NextToken:    nextToken,
		})
		if err != nil {
			return nil, upstreamErr("describe log streams", err)
		}

		for _, s := range out.LogStreams {
			names = append(names, aws.ToString(s.LogStreamName))
		}

		if out.NextToken == nil {
			return names, nil
		}
		nextToken = out.NextToken
	}
}

// chunkStrings splits a slice into chunks of at most n.
func chunkStrings(items []string, n int) [][]string {
	var chunks [][]string
	for len(items) > n {
		chunks = append(chunks, items[:n])
		items = items[n:]
	}
	if len(items) > 0 {
		chunks = append(chunks, items)
	}
	return chunks
}
