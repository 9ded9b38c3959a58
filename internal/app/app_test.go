package app

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GoArmGo/CatsApp/internal/config"
	"github.com/GoArmGo/CatsApp/internal/logger"
	"github.com/GoArmGo/CatsApp/internal/messaging/payloads"
)

type fakeCloser struct {
	closed bool
	err    error
}

func (f *fakeCloser) Close() error {
	f.closed = true
	return f.err
}

type fakePhotoStore struct {
	deleted   []string
	deleteErr error
}

func (f *fakePhotoStore) Store(context.Context, []byte, string, string) (string, error) {
	return "", errors.New("not used")
}

func (f *fakePhotoStore) Delete(_ context.Context, path string) error {
	f.deleted = append(f.deleted, path)
	return f.deleteErr
}

func (f *fakePhotoStore) Open(context.Context, string) (io.ReadCloser, error) {
	return nil, errors.New("not used")
}

func (f *fakePhotoStore) PublicURL(path string) string { return path }

// fakeConsumer сразу прогоняет заданные сообщения через обработчик
type fakeConsumer struct {
	messages []payloads.OrphanCleanupPayload
	results  []error
	startErr error
}

func (f *fakeConsumer) StartConsumingOrphanCleanups(ctx context.Context, handler func(context.Context, payloads.OrphanCleanupPayload) error) error {
	if f.startErr != nil {
		return f.startErr
	}
	for _, msg := range f.messages {
		f.results = append(f.results, handler(ctx, msg))
	}
	return nil
}

func TestServe_ShutsDownOnCancel(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	server := &http.Server{Handler: http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- serve(ctx, server, ln, logger.Discard()) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestServe_ReturnsListenerError(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	require.NoError(t, ln.Close())

	err = serve(context.Background(), &http.Server{Handler: http.NotFoundHandler()}, ln, logger.Discard())
	assert.Error(t, err)
}

func TestRunWorker_RequiresConsumer(t *testing.T) {
	err := runWorker(context.Background(), logger.Discard(), &fakePhotoStore{}, nil)
	assert.ErrorContains(t, err, "RABBITMQ_URL")
}

func TestRunWorker_DeletesQueuedFiles(t *testing.T) {
	store := &fakePhotoStore{}
	consumer := &fakeConsumer{messages: []payloads.OrphanCleanupPayload{
		{Path: "cats/a.png", Reason: payloads.ReasonCatDeleted},
		{Path: "cats/b.jpg", Reason: payloads.ReasonCreateFailed},
	}}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, runWorker(ctx, logger.Discard(), store, consumer))

	assert.Equal(t, []string{"cats/a.png", "cats/b.jpg"}, store.deleted)
	assert.Equal(t, []error{nil, nil}, consumer.results)
}

func TestRunWorker_StartError(t *testing.T) {
	consumer := &fakeConsumer{startErr: errors.New("channel closed")}
	err := runWorker(context.Background(), logger.Discard(), &fakePhotoStore{}, consumer)
	assert.ErrorContains(t, err, "channel closed")
}

func TestOrphanCleanupHandler_ReturnsDeleteError(t *testing.T) {
	store := &fakePhotoStore{deleteErr: errors.New("bucket unavailable")}
	handler := orphanCleanupHandler(store, logger.Discard())

	err := handler(context.Background(), payloads.OrphanCleanupPayload{Path: "cats/a.png"})
	assert.ErrorContains(t, err, "bucket unavailable")
}

func TestApp_RunUnknownModeClosesResources(t *testing.T) {
	db := &fakeCloser{}
	queue := &fakeCloser{}
	a := NewApp(&config.Config{}, logger.Discard(), Deps{DB: db, Queue: queue})

	err := a.Run(context.Background(), "batch")
	assert.ErrorContains(t, err, "unknown mode")
	assert.True(t, db.closed)
	assert.True(t, queue.closed)
}

func TestApp_ShutdownJoinsErrors(t *testing.T) {
	a := NewApp(&config.Config{}, logger.Discard(), Deps{
		DB:    &fakeCloser{err: errors.New("db busy")},
		Queue: &fakeCloser{err: errors.New("queue gone")},
	})

	err := a.Shutdown()
	require.Error(t, err)
	assert.ErrorContains(t, err, "db busy")
	assert.ErrorContains(t, err, "queue gone")
}
