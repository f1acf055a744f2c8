package tracing

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestRecordErrorSetsTypeAndStatus(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	_, span := provider.Tracer("test").Start(context.Background(), "op")

	RecordError(span, errors.New("模型超时"), ErrorTypeLLM)
	span.End()

	ended := recorder.Ended()
	require.Len(t, ended, 1)
	assert.Equal(t, codes.Error, ended[0].Status().Code)

	attrs := ended[0].Attributes()
	var errorType, errorMessage string
	for _, kv := range attrs {
		switch string(kv.Key) {
		case "error.type":
			errorType = kv.Value.AsString()
		case "error.message":
			errorMessage = kv.Value.AsString()
		}
	}
	assert.Equal(t, string(ErrorTypeLLM), errorType)
	assert.Equal(t, "模型超时", errorMessage)
	require.Len(t, ended[0].Events(), 1)
}

func TestRecordErrorNilSafe(t *testing.T) {
	assert.NotPanics(t, func() {
		RecordError(nil, errors.New("boom"), ErrorTypeInternal)
	})

	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	_, span := provider.Tracer("test").Start(context.Background(), "op")

	RecordError(span, nil, ErrorTypeInternal)
	span.End()

	ended := recorder.Ended()
	require.Len(t, ended, 1)
	assert.Equal(t, codes.Unset, ended[0].Status().Code)
}

func TestRecordErrorWithInfoAppendsAttributes(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	_, span := provider.Tracer("test").Start(context.Background(), "op")

	RecordErrorWithInfo(span, errors.New("上传失败"), ErrorTypeInternal,
		attribute.String("submission_uuid", "abc-123"))
	span.End()

	ended := recorder.Ended()
	require.Len(t, ended, 1)

	var uuid string
	for _, kv := range ended[0].Attributes() {
		if string(kv.Key) == "submission_uuid" {
			uuid = kv.Value.AsString()
		}
	}
	assert.Equal(t, "abc-123", uuid)
}

func TestRecordHTTPErrorCategorizesStatus(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	_, span := provider.Tracer("test").Start(context.Background(), "op")

	RecordHTTPError(span, errors.New("下游不可用"), 502)
	span.End()

	ended := recorder.Ended()
	require.Len(t, ended, 1)
	assert.Equal(t, codes.Error, ended[0].Status().Code)

	var category string
	for _, kv := range ended[0].Attributes() {
		if string(kv.Key) == "error.category" {
			category = kv.Value.AsString()
		}
	}
	assert.Equal(t, "server_error", category)
}
