package tracer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInitTracer_DisabledByDefault(t *testing.T) {
	t.Setenv("OTEL_ENABLED", "")

	shutdown := InitTracer(5)
	assert.NoError(t, shutdown(context.Background()))
}
