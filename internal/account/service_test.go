package account

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"discoverlx/poi-api/db"
	"discoverlx/poi-api/internal/model"
	"discoverlx/poi-api/internal/storage"
	"discoverlx/poi-api/pkg/security"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeMailer struct {
	mu   sync.Mutex
	ok   bool
	sent []string
}

func (m *fakeMailer) SendActivation(to, username, link string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sent = append(m.sent, to)
	return m.ok
}

type memStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	deleted []string
}

func newMemStore() *memStore {
	return &memStore{objects: map[string][]byte{}}
}

func (m *memStore) Save(_ context.Context, key string, r io.Reader, _ int64, _ string) error {
	b, err := io.ReadAll(r)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.objects[key] = b
	return nil
}

func (m *memStore) Open(_ context.Context, key string) (io.ReadCloser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	b, ok := m.objects[key]
	if !ok {
		return nil, storage.ErrNotFound
	}

	return io.NopCloser(bytes.NewReader(b)), nil
}

func (m *memStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.deleted = append(m.deleted, key)
	delete(m.objects, key)
	return nil
}

type fixture struct {
	svc    *Service
	db     *gorm.DB
	codec  *security.TokenCodec
	mailer *fakeMailer
	store  *memStore
}

func newFixture(t *testing.T, mailOK bool) *fixture {
	t.Helper()

	name := strings.ReplaceAll(t.Name(), "/", "_")

	database, err := db.New(fmt.Sprintf("file:%s?mode=memory&cache=shared", name))
	require.NoError(t, err)

	codec := security.NewTokenCodec("test-secret")
	mailer := &fakeMailer{ok: mailOK}
	store := newMemStore()

	return &fixture{
		svc:    NewService(database, codec, security.NewArgon(), mailer, store, "http://localhost:8080"),
		db:     database,
		codec:  codec,
		mailer: mailer,
		store:  store,
	}
}

func (f *fixture) user(t *testing.T, email string) *model.User {
	t.Helper()

	var u model.User
	require.NoError(t, f.db.Where("email = ?", email).First(&u).Error)
	return &u
}

func tokenFromLink(link string) string {
	return link[strings.LastIndex(link, "/")+1:]
}

func TestRegisterIssuesUsableToken(t *testing.T) {
	f := newFixture(t, true)

	res, err := f.svc.Register(context.Background(), "ana", "Ana@X.com")
	require.NoError(t, err)
	assert.True(t, res.MailSent)
	assert.Equal(t, []string{"ana@x.com"}, f.mailer.sent)

	u := f.user(t, "ana@x.com")
	assert.False(t, u.Validated)
	assert.Nil(t, u.PasswordHash)
	require.NotNil(t, u.ValidationToken)
	require.NotNil(t, u.TokenExpiresAt)
	assert.WithinDuration(t, time.Now().Add(ActivationTokenTTL), *u.TokenExpiresAt, time.Minute)

	// The issued token decodes straight back to the registered email
	email, err := f.codec.Verify(*u.ValidationToken, security.PurposeEmailValidation, ActivationTokenTTL)
	require.NoError(t, err)
	assert.Equal(t, "ana@x.com", email)

	assert.Equal(t, "http://localhost:8080/validate/"+*u.ValidationToken, res.ActivationLink)
}

func TestRegisterRejectsBadInput(t *testing.T) {
	f := newFixture(t, true)

	_, err := f.svc.Register(context.Background(), "", "ana@x.com")
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.svc.Register(context.Background(), "ab", "ana@x.com")
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.svc.Register(context.Background(), "ana", "")
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.svc.Register(context.Background(), "ana", "not-an-email")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestRegisterDuplicates(t *testing.T) {
	f := newFixture(t, true)

	_, err := f.svc.Register(context.Background(), "ana", "ana@x.com")
	require.NoError(t, err)

	_, err = f.svc.Register(context.Background(), "ana", "other@x.com")
	assert.ErrorIs(t, err, ErrDuplicateUsername)

	_, err = f.svc.Register(context.Background(), "other", "ana@x.com")
	assert.ErrorIs(t, err, ErrDuplicateEmail)
}

func TestRegisterConcurrentSameUsername(t *testing.T) {
	f := newFixture(t, true)

	errs := make(chan error, 2)

	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()

			_, err := f.svc.Register(context.Background(), "ana", fmt.Sprintf("ana%d@x.com", i))
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	var won, lost int
	for err := range errs {
		if err == nil {
			won++
		} else {
			assert.ErrorIs(t, err, ErrDuplicateUsername)
			lost++
		}
	}

	assert.Equal(t, 1, won)
	assert.Equal(t, 1, lost)
}

func TestRegisterMailFailureKeepsAccount(t *testing.T) {
	f := newFixture(t, false)

	res, err := f.svc.Register(context.Background(), "ana", "ana@x.com")
	require.NoError(t, err)

	// Delivery failed but the account is committed and the link usable
	assert.False(t, res.MailSent)
	assert.NotEmpty(t, res.ActivationLink)

	_, err = f.svc.Activate(context.Background(), tokenFromLink(res.ActivationLink))
	require.NoError(t, err)
}

func TestFullLifecycle(t *testing.T) {
	f := newFixture(t, true)

	res, err := f.svc.Register(context.Background(), "ana", "ana@x.com")
	require.NoError(t, err)

	token := tokenFromLink(res.ActivationLink)

	act, err := f.svc.Activate(context.Background(), token)
	require.NoError(t, err)
	require.NotEmpty(t, act.SetupToken)

	u := f.user(t, "ana@x.com")
	assert.True(t, u.Validated)
	assert.Nil(t, u.ValidationToken, "stored token must be cleared on validation")

	// Activating the same token again is idempotent
	_, err = f.svc.Activate(context.Background(), token)
	assert.ErrorIs(t, err, ErrAlreadyValidated)

	u = f.user(t, "ana@x.com")
	assert.True(t, u.Validated)
	assert.Nil(t, u.ValidationToken)

	_, err = f.svc.SetPassword(context.Background(), act.SetupToken, "secret1", "secret1")
	require.NoError(t, err)

	logged, err := f.svc.Login(context.Background(), "ana", "secret1")
	require.NoError(t, err)
	assert.Equal(t, u.ID, logged.ID)

	// Email works as identifier too, case-insensitive
	_, err = f.svc.Login(context.Background(), "Ana@X.com", "secret1")
	require.NoError(t, err)

	_, err = f.svc.Login(context.Background(), "ana", "wrong")
	assert.ErrorIs(t, err, ErrBadPassword)
}

func TestActivateFailures(t *testing.T) {
	f := newFixture(t, true)

	_, err := f.svc.Activate(context.Background(), "garbage")
	assert.ErrorIs(t, err, ErrInvalidOrExpiredToken)

	// Signature-valid token for an email nobody registered
	tok, err := f.codec.Issue("ghost@x.com", security.PurposeEmailValidation)
	require.NoError(t, err)

	_, err = f.svc.Activate(context.Background(), tok)
	assert.ErrorIs(t, err, ErrAccountNotFound)
}

func TestActivateSupersededToken(t *testing.T) {
	f := newFixture(t, true)

	res, err := f.svc.Register(context.Background(), "ana", "ana@x.com")
	require.NoError(t, err)

	token := tokenFromLink(res.ActivationLink)

	// A newer token replaced the stored one. The old link stays
	// signature-valid but must not activate anything
	require.NoError(t, f.db.Model(model.User{}).
		Where("email = ?", "ana@x.com").
		Update("validation_token", "replaced").
		Error)

	_, err = f.svc.Activate(context.Background(), token)
	assert.ErrorIs(t, err, ErrAccountNotFound)

	u := f.user(t, "ana@x.com")
	assert.False(t, u.Validated)
}

func TestActivateStoredExpiryPassed(t *testing.T) {
	f := newFixture(t, true)

	res, err := f.svc.Register(context.Background(), "ana", "ana@x.com")
	require.NoError(t, err)

	past := time.Now().Add(-time.Minute)
	require.NoError(t, f.db.Model(model.User{}).
		Where("email = ?", "ana@x.com").
		Update("token_expires_at", past).
		Error)

	_, err = f.svc.Activate(context.Background(), tokenFromLink(res.ActivationLink))
	assert.ErrorIs(t, err, ErrInvalidOrExpiredToken)
}

func TestSetPasswordFailures(t *testing.T) {
	f := newFixture(t, true)

	res, err := f.svc.Register(context.Background(), "ana", "ana@x.com")
	require.NoError(t, err)

	act, err := f.svc.Activate(context.Background(), tokenFromLink(res.ActivationLink))
	require.NoError(t, err)

	_, err = f.svc.SetPassword(context.Background(), "garbage", "secret1", "secret1")
	assert.ErrorIs(t, err, ErrNoPendingSetup)

	_, err = f.svc.SetPassword(context.Background(), act.SetupToken, "secret1", "secret2")
	assert.ErrorIs(t, err, ErrPasswordMismatch)

	_, err = f.svc.SetPassword(context.Background(), act.SetupToken, "", "")
	assert.ErrorIs(t, err, ErrPasswordMismatch)

	_, err = f.svc.SetPassword(context.Background(), act.SetupToken, "12345", "12345")
	assert.ErrorIs(t, err, ErrWeakPassword)

	// None of the failed attempts stored anything
	u := f.user(t, "ana@x.com")
	assert.Nil(t, u.PasswordHash)

	_, err = f.svc.SetPassword(context.Background(), act.SetupToken, "secret1", "secret1")
	require.NoError(t, err)

	// The marker is consumed once a hash exists
	_, err = f.svc.SetPassword(context.Background(), act.SetupToken, "another1", "another1")
	assert.ErrorIs(t, err, ErrNoPendingSetup)
}

func TestSetPasswordNotValidated(t *testing.T) {
	f := newFixture(t, true)

	_, err := f.svc.Register(context.Background(), "ana", "ana@x.com")
	require.NoError(t, err)

	u := f.user(t, "ana@x.com")

	// A setup token can't exist for a pending account through the normal
	// flow, craft one to check the guard
	tok, err := f.codec.Issue(strconv.FormatUint(uint64(u.ID), 10), security.PurposePasswordSetup)
	require.NoError(t, err)

	_, err = f.svc.SetPassword(context.Background(), tok, "secret1", "secret1")
	assert.ErrorIs(t, err, ErrNotValidated)
}

func TestLoginStateLadder(t *testing.T) {
	f := newFixture(t, true)

	_, err := f.svc.Login(context.Background(), "", "")
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.svc.Login(context.Background(), "nobody", "secret1")
	assert.ErrorIs(t, err, ErrAccountNotFound)

	res, err := f.svc.Register(context.Background(), "ana", "ana@x.com")
	require.NoError(t, err)

	// Pending accounts fail before any credential comparison
	_, err = f.svc.Login(context.Background(), "ana", "secret1")
	assert.ErrorIs(t, err, ErrNotValidated)

	act, err := f.svc.Activate(context.Background(), tokenFromLink(res.ActivationLink))
	require.NoError(t, err)

	_, err = f.svc.Login(context.Background(), "ana", "secret1")
	assert.ErrorIs(t, err, ErrNoPassword)

	_, err = f.svc.SetPassword(context.Background(), act.SetupToken, "secret1", "secret1")
	require.NoError(t, err)

	_, err = f.svc.Login(context.Background(), "ana", "secret1")
	require.NoError(t, err)
}

func TestDeleteCascades(t *testing.T) {
	f := newFixture(t, true)

	res, err := f.svc.Register(context.Background(), "ana", "ana@x.com")
	require.NoError(t, err)

	act, err := f.svc.Activate(context.Background(), tokenFromLink(res.ActivationLink))
	require.NoError(t, err)

	u, err := f.svc.SetPassword(context.Background(), act.SetupToken, "secret1", "secret1")
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		key := fmt.Sprintf("media%d.jpg", i)
		f.store.objects[key] = []byte("bytes")

		require.NoError(t, f.db.Create(&model.Content{
			UserID:        u.ID,
			Title:         fmt.Sprintf("Spot %d", i),
			Description:   "a place",
			Category:      "restaurant",
			MediaType:     "image",
			MediaFilename: key,
		}).Error)
	}

	require.NoError(t, f.svc.Delete(context.Background(), u.ID))

	var users, contents int64
	require.NoError(t, f.db.Model(model.User{}).Count(&users).Error)
	require.NoError(t, f.db.Model(model.Content{}).Count(&contents).Error)
	assert.Zero(t, users)
	assert.Zero(t, contents, "content rows must cascade with the account")

	assert.Len(t, f.store.deleted, 3)
	assert.Empty(t, f.store.objects)

	assert.ErrorIs(t, f.svc.Delete(context.Background(), u.ID), ErrAccountNotFound)
}
