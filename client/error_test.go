package client_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/adamwoolhether/netcall/client"
)

func TestError_Messages(t *testing.T) {
	decodeErr := &json.SyntaxError{Offset: 3}

	testCases := map[string]struct {
		err    *client.Error
		expMsg string
	}{
		"invalidURL":     {err: client.InvalidURL(), expMsg: "Invalid URL."},
		"requestFailed":  {err: client.RequestFailed(404), expMsg: "Request failed with status code: 404."},
		"transportCode":  {err: client.RequestFailed(client.CodeTimedOut), expMsg: "Request failed with status code: -1001."},
		"noData":         {err: client.NoData(), expMsg: "No data received."},
		"decodingFailed": {err: client.DecodingFailed(errors.New("bad json")), expMsg: "Error decoding data: bad json"},
		"encodingFailed": {err: client.EncodingFailed(errors.New("bad value")), expMsg: "Error encoding data: bad value"},
		"unknown":        {err: client.Unknown(), expMsg: "An unknown error occurred."},
		"custom":         {err: client.Custom("try again later"), expMsg: "try again later"},
		"wrappedSyntax":  {err: client.DecodingFailed(decodeErr), expMsg: "Error decoding data: " + decodeErr.Error()},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			if got := tc.err.Error(); got != tc.expMsg {
				t.Errorf("expected %q, got %q", tc.expMsg, got)
			}
		})
	}
}

func TestError_Is(t *testing.T) {
	wrapped := fmt.Errorf("fetching todo: %w", client.RequestFailed(500))

	if !errors.Is(wrapped, client.ErrRequestFailed) {
		t.Error("expected wrapped requestFailed to match sentinel")
	}
	if errors.Is(wrapped, client.ErrNoData) {
		t.Error("expected requestFailed not to match noData")
	}
	if errors.Is(wrapped, errors.New("Request failed with status code: 500.")) {
		t.Error("expected no match against a foreign error")
	}
}

func TestError_UnwrapsDecodeCause(t *testing.T) {
	var syntaxErr *json.SyntaxError
	var target struct{}

	cause := json.Unmarshal([]byte("{"), &target)
	err := client.DecodingFailed(cause)

	if !errors.As(err, &syntaxErr) {
		t.Errorf("expected the underlying *json.SyntaxError to be reachable, got %v", err)
	}
}

func TestAsError(t *testing.T) {
	if client.AsError(nil) != nil {
		t.Error("expected nil for nil error")
	}

	if got := client.AsError(errors.New("raw")); got.Kind != client.KindUnknown {
		t.Errorf("expected unknown for foreign error, got %s", got.Kind)
	}

	orig := client.RequestFailed(418)
	if got := client.AsError(fmt.Errorf("wrap: %w", orig)); got != orig {
		t.Errorf("expected the wrapped *Error back, got %v", got)
	}
}

func TestKind_String(t *testing.T) {
	kinds := map[client.Kind]string{
		client.KindInvalidURL:     "invalid_url",
		client.KindDecodingFailed: "decoding_failed",
		client.KindEncodingFailed: "encoding_failed",
		client.KindRequestFailed:  "request_failed",
		client.KindNoData:         "no_data",
		client.KindUnknown:        "unknown",
		client.KindCustom:         "custom",
	}

	for k, exp := range kinds {
		if k.String() != exp {
			t.Errorf("expected %q, got %q", exp, k.String())
		}
	}
}
