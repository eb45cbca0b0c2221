package application

import (
	"context"
	"errors"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/oksasatya/pokedex-api/internal/domain/entity"
	"github.com/oksasatya/pokedex-api/internal/infrastructure/memory"
	"github.com/oksasatya/pokedex-api/pkg/helpers"
	"github.com/oksasatya/pokedex-api/pkg/mailer"
)

var (
	pngBytes  = []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A, 0, 0, 0, 0x0D}
	jpegBytes = []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10}
)

type recordingNotifier struct {
	mu   sync.Mutex
	jobs []mailer.EmailJob
	err  error
}

func (n *recordingNotifier) PublishJSON(_ context.Context, body any) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.err != nil {
		return n.err
	}
	n.jobs = append(n.jobs, body.(mailer.EmailJob))
	return nil
}

type stubMirror struct {
	url string
	err error
}

func (m stubMirror) Mirror(context.Context, string, entity.Avatar) (string, error) {
	return m.url, m.err
}

var errStore = errors.New("store unavailable")

type fixture struct {
	store    *memory.Store
	identity *IdentityService
	profiles *ProfileService
	notifier *recordingNotifier
}

func newFixture() *fixture {
	store := memory.NewStore()
	jwt := helpers.NewJWTManager("test-secret", time.Hour)
	notifier := &recordingNotifier{}
	identity := NewIdentityService(store, store, store, jwt, helpers.NewHasher(bcrypt.MinCost), nil)
	identity.Notifier = notifier
	return &fixture{
		store:    store,
		identity: identity,
		profiles: NewProfileService(store, store, nil),
		notifier: notifier,
	}
}

func (f *fixture) register(username, email string) *Session {
	sess, err := f.identity.Register(context.Background(), RegisterInput{
		Username: username, Email: email, Password: "pikachu1", Avatar: pngBytes,
	})
	if err != nil {
		panic(err)
	}
	return sess
}

func intp(v int) *int { return &v }
