package retry

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/troupe-dev/troupe"
)

// timeoutError satisfies net.Error so the default classifier treats it as
// transient.
type timeoutError string

func (e timeoutError) Error() string   { return string(e) }
func (e timeoutError) Timeout() bool   { return true }
func (e timeoutError) Temporary() bool { return true }

var _ net.Error = timeoutError("")

// errBackendDown stands in for a flaky upstream that recovers on its own.
var errBackendDown = timeoutError("backend unreachable: i/o timeout")

// fastConfig returns a policy with millisecond delays so exhaustion tests
// finish quickly.
func fastConfig(maxRetries int) Config {
	return Config{
		MaxRetries: maxRetries,
		Delay:      time.Millisecond,
		Backoff:    true,
		MaxDelay:   10 * time.Millisecond,
	}
}

// succeedAfter returns a function that fails with errBackendDown until its
// nth call, counting calls in *calls.
func succeedAfter(n int, calls *int) func() (string, error) {
	return func() (string, error) {
		*calls++
		if *calls < n {
			return "", errBackendDown
		}
		return "ok", nil
	}
}

func TestDoFirstAttemptSucceeds(t *testing.T) {
	calls := 0

	result, err := Do(context.Background(), DefaultConfig(), succeedAfter(1, &calls))

	assert.NoError(t, err)
	assert.Equal(t, "ok", result)
	assert.Equal(t, 1, calls)
}

func TestDoRecoversFromTimeouts(t *testing.T) {
	calls := 0

	result, err := Do(context.Background(), fastConfig(2), succeedAfter(3, &calls))

	assert.NoError(t, err)
	assert.Equal(t, "ok", result)
	assert.Equal(t, 3, calls)
}

func TestDoStopsOnFinalError(t *testing.T) {
	calls := 0
	errBadRequest := errors.New("invalid model name")

	_, err := Do(context.Background(), fastConfig(5), func() (string, error) {
		calls++
		return "", errBadRequest
	})

	assert.ErrorIs(t, err, errBadRequest)
	assert.Equal(t, 1, calls)
}

func TestDoReturnsLastErrorWhenExhausted(t *testing.T) {
	// MaxRetries counts retries, not attempts: two retries means the
	// function runs exactly three times before the failure comes back.
	calls := 0

	_, err := Do(context.Background(), fastConfig(2), succeedAfter(10, &calls))

	assert.ErrorIs(t, err, errBackendDown)
	assert.Equal(t, 3, calls)
}

func TestDoNeverRetriesValidationErrors(t *testing.T) {
	calls := 0
	verr := &troupe.ValidationError{Tool: "search", Field: "query", Reason: "missing required parameter"}

	cfg := fastConfig(5)
	cfg.Classify = UnlessFinal

	_, err := Do(context.Background(), cfg, func() (string, error) {
		calls++
		return "", verr
	})

	assert.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestDoUnlessFinalRetriesPlainErrors(t *testing.T) {
	calls := 0

	cfg := fastConfig(2)
	cfg.Classify = UnlessFinal

	_, err := Do(context.Background(), cfg, func() (string, error) {
		calls++
		return "", errors.New("boom")
	})

	assert.Error(t, err)
	assert.Equal(t, 3, calls)
}

func TestDoHonorsServerRetryAfter(t *testing.T) {
	calls := 0
	rateLimited := &troupe.ModelError{
		Provider:   troupe.ProviderOpenAI,
		Status:     429,
		RetryAfter: 30 * time.Millisecond,
		Err:        errors.New("rate limit exceeded"),
	}

	start := time.Now()
	_, err := Do(context.Background(), fastConfig(1), func() (string, error) {
		calls++
		if calls == 1 {
			return "", rateLimited
		}
		return "ok", nil
	})

	assert.NoError(t, err)
	assert.Equal(t, 2, calls)
	// The 1ms configured delay stretches to the provider's 30ms request.
	assert.GreaterOrEqual(t, time.Since(start), 25*time.Millisecond)
}

func TestDoStopsWaitingWhenContextEnds(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	calls := 0
	_, err := Do(ctx, Config{MaxRetries: 10, Delay: time.Minute}, func() (string, error) {
		calls++
		return "", errBackendDown
	})

	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, 1, calls)
}

func TestDoDisabledMakesOneAttempt(t *testing.T) {
	calls := 0

	_, err := Do(context.Background(), Disabled(), succeedAfter(2, &calls))

	assert.ErrorIs(t, err, errBackendDown)
	assert.Equal(t, 1, calls)
}

// streamOf returns a closed channel preloaded with the given chunks.
func streamOf(chunks ...string) <-chan string {
	ch := make(chan string, len(chunks))
	for _, c := range chunks {
		ch <- c
	}
	close(ch)
	return ch
}

func TestDoStreamFirstAttemptSucceeds(t *testing.T) {
	calls := 0

	ch, err := DoStream(context.Background(), DefaultConfig(), func() (<-chan string, error) {
		calls++
		return streamOf("chunk"), nil
	})

	assert.NoError(t, err)
	assert.Equal(t, 1, calls)
	assert.Equal(t, "chunk", <-ch)
}

func TestDoStreamRetriesConnectFailures(t *testing.T) {
	calls := 0

	ch, err := DoStream(context.Background(), fastConfig(2), func() (<-chan string, error) {
		calls++
		if calls < 3 {
			return nil, errBackendDown
		}
		return streamOf("late", "chunks"), nil
	})

	assert.NoError(t, err)
	assert.Equal(t, 3, calls)
	assert.Equal(t, "late", <-ch)
}

func TestDoStreamStopsOnFinalError(t *testing.T) {
	calls := 0
	errAuth := errors.New("invalid api key")

	_, err := DoStream(context.Background(), fastConfig(5), func() (<-chan string, error) {
		calls++
		return nil, errAuth
	})

	assert.ErrorIs(t, err, errAuth)
	assert.Equal(t, 1, calls)
}
