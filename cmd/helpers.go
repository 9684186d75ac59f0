package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"

	"github.com/bitpart/dataapi/dataapi"
	"github.com/bitpart/dataapi/filter"
)

var errRejected = errors.New("request rejected")

// printResult writes res as indented JSON. A tagged error result is not
// printed and fails the command instead.
func printResult(w io.Writer, res dataapi.Result) error {
	if err := checkResult(res); err != nil {
		return err
	}

	out, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}
	_, err = fmt.Fprintln(w, string(out))
	return err
}

func checkResult(res dataapi.Result) error {
	if res.IsError() {
		return fmt.Errorf("%w: %s", errRejected, firstLine(res.Message()))
	}
	return nil
}

// firstLine keeps the status line of a response dump
func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return strings.TrimSpace(line)
}

// parseQuery turns key=value pairs into params. Repeated keys collect
// into a list.
func parseQuery(pairs []string) (dataapi.Params, error) {
	params := make(dataapi.Params, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid query parameter %q (expected key=value)", pair)
		}

		switch existing := params[key].(type) {
		case nil:
			params[key] = value
		case string:
			params[key] = []string{existing, value}
		case []string:
			params[key] = append(existing, value)
		}
	}
	return params, nil
}

// readPayload decodes a JSON object given inline or read from a file
func readPayload(fs afero.Fs, data, file string) (dataapi.Params, error) {
	var raw []byte
	switch {
	case data != "" && file != "":
		return nil, errors.New("--data and --file are mutually exclusive")
	case data != "":
		raw = []byte(data)
	case file != "":
		b, err := afero.ReadFile(fs, file)
		if err != nil {
			return nil, fmt.Errorf("failed to read payload: %w", err)
		}
		raw = b
	default:
		return nil, errors.New("a payload is required (--data or --file)")
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var params dataapi.Params
	if err := dec.Decode(&params); err != nil {
		return nil, fmt.Errorf("failed to parse payload: %w", err)
	}
	if params == nil {
		return nil, errors.New("payload must be a JSON object")
	}
	return params, nil
}

func parseIDs(args []string) ([]int, error) {
	ids := make([]int, 0, len(args))
	for _, arg := range args {
		id, err := strconv.Atoi(arg)
		if err != nil || id <= 0 {
			return nil, fmt.Errorf("invalid id %q", arg)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// filterResult narrows the items of a list or search result. The server's
// totalResults is left untouched.
func filterResult(ctx context.Context, res dataapi.Result, presets map[string]string, where, preset string) (dataapi.Result, error) {
	if res.IsError() || (where == "" && preset == "") {
		return res, nil
	}

	manager := filter.NewManager()
	if err := manager.RegisterFilters(presets); err != nil {
		return nil, err
	}

	var (
		matches []dataapi.Result
		err     error
	)
	if where != "" {
		matches, err = manager.EvaluateExpression(ctx, where, res.Items())
	} else {
		matches, err = manager.EvaluateFilter(ctx, preset, res.Items())
	}
	if err != nil {
		return nil, fmt.Errorf("invalid filter: %w", err)
	}

	out := make(dataapi.Result, len(res))
	for k, v := range res {
		out[k] = v
	}
	items := make([]any, len(matches))
	for i, m := range matches {
		items[i] = map[string]any(m)
	}
	out["items"] = items

	logger.Debug().
		Int("received", len(res.Items())).
		Int("matched", len(matches)).
		Msg("Filtered items")

	return out, nil
}

// runBatch calls fn for every id with at most limit calls in flight.
// Every id is attempted unless ctx ends; failures are collected and
// returned together.
func runBatch(ctx context.Context, ids []int, limit int, fn func(context.Context, int) (dataapi.Result, error)) ([]dataapi.Result, error) {
	results := make([]dataapi.Result, len(ids))

	var (
		mu   sync.Mutex
		errs *multierror.Error
	)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(limit, 1))

	for i, id := range ids {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res, err := fn(ctx, id)
			if err == nil {
				err = checkResult(res)
			}
			if err != nil {
				mu.Lock()
				errs = multierror.Append(errs, fmt.Errorf("id %d: %w", id, err))
				mu.Unlock()
				logger.Error().Err(err).Int("id", id).Msg("Request failed")
				return nil
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		errs = multierror.Append(errs, err)
	}
	return results, errs.ErrorOrNil()
}
