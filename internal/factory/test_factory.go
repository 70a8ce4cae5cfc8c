package factory

import (
	"time"

	"github.com/mcoot/mtlobby/internal/dependencies/mocks"
	"github.com/mcoot/mtlobby/internal/model"
	"github.com/mcoot/mtlobby/internal/services/cipher"
	"github.com/mcoot/mtlobby/internal/storage/memory"
	"github.com/mcoot/mtlobby/internal/testutil"
	"github.com/mcoot/mtlobby/internal/transport/ws"
)

// TestCipherKey is the pre-shared key used by NewTestApp
const TestCipherKey = "test-key-0123456"

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock  *mocks.MockClock
	MockRandom *mocks.MockRandom
	Store      *memory.Storage
}

// NewTestApp creates an App configured for testing with mocked dependencies
func NewTestApp() *TestApp {
	store := memory.New()
	mockClock := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	mockRandom := mocks.NewMockRandom()

	cipherService, err := cipher.New([]byte(TestCipherKey), mockRandom)
	if err != nil {
		panic(err)
	}

	app := newWithDependencies(store, cipherService, mockClock, mockRandom, ws.DefaultConfig(), testutil.NopLogger())

	return &TestApp{
		App:        app,
		MockClock:  mockClock,
		MockRandom: mockRandom,
		Store:      store,
	}
}

// SealIdentity encrypts an identity for id holding tables, the way the game
// server does before handing it to a client
func (t *TestApp) SealIdentity(id string, tables ...string) []byte {
	identity := &model.Identity{
		Name:      "Player " + id,
		Avatar:    "avatar-" + id + ".png",
		PlayerID:  model.PlayerID(id),
		CreatedAt: t.MockClock.Now(),
		Rating:    1500,
	}
	for _, table := range tables {
		identity.Tables = append(identity.Tables, model.TableEntry{TableID: model.TableID(table)})
	}

	blob, err := t.Cipher.Encrypt(identity)
	if err != nil {
		panic(err)
	}
	return blob
}
