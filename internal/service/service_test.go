package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/Gopher0727/StudyGroup/internal/domain"
	"github.com/Gopher0727/StudyGroup/internal/metrics"
	"github.com/Gopher0727/StudyGroup/internal/pkg/logger"
	"github.com/Gopher0727/StudyGroup/internal/store"
	"github.com/Gopher0727/StudyGroup/utils/snowflake"
)

type recordingNotifier struct {
	mu       sync.Mutex
	messages []*domain.Message
	err      error
}

func (n *recordingNotifier) Publish(_ context.Context, msg *domain.Message) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.messages = append(n.messages, msg)
	return n.err
}

func (n *recordingNotifier) Close() error { return nil }

func (n *recordingNotifier) published() []*domain.Message {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]*domain.Message(nil), n.messages...)
}

type failingIDs struct{}

func (failingIDs) NextID() (int64, error) { return 0, snowflake.ErrClockMovedBackwards }

type fixture struct {
	store    *store.Directory
	metrics  *metrics.Metrics
	users    IUserService
	groups   IGroupService
	messages IMessageService
	notifier *recordingNotifier
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ids, err := snowflake.NewGenerator(snowflake.Config{WorkerID: 1})
	require.NoError(t, err)

	catalog := domain.NewCatalog([]string{"CS3377", "CS4348"}, []string{"ECSW", "Library"})
	s := store.NewDirectory(catalog, store.WithBcryptCost(bcrypt.MinCost))
	log := logger.NewNop()
	n := &recordingNotifier{}
	m := metrics.New(prometheus.NewRegistry())

	return &fixture{
		store:    s,
		metrics:  m,
		users:    NewUserService(s, log, m),
		groups:   NewGroupService(s, log, m),
		messages: NewMessageService(s, ids, n, log, m),
		notifier: n,
	}
}

func (f *fixture) register(t *testing.T, name string) *domain.User {
	t.Helper()
	u, err := f.users.Register(context.Background(), name, name+"-pw", name+"@utdallas.edu")
	require.NoError(t, err)
	return u
}

func params(name string, maxSize int) domain.GroupParams {
	return domain.GroupParams{
		Name:     name,
		Course:   "CS3377",
		Location: "ECSW",
		Date:     time.Date(2025, 4, 10, 15, 0, 0, 0, time.UTC),
		MaxSize:  maxSize,
	}
}

var errPublish = errors.New("broker unavailable")
