package authenticator

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestFileSource_Load(t *testing.T) {
	cfg, err := FileSource{Path: "testdata/config.yaml"}.Load(context.Background())
	require.NoError(t, err)

	assert.Len(t, cfg.Credentials.Usernames, 2)
	assert.Contains(t, cfg.Credentials.Usernames, "jsmith", "usernames are lower-cased")
	assert.Equal(t, "some_cookie_name", cfg.Cookie.Name)
	assert.Equal(t, 30.0, cfg.Cookie.ExpiryDays)
}

func TestSecretSource_Load(t *testing.T) {
	cfg, err := SecretSource{Path: "testdata/secrets.toml"}.Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "Rebecca Briggs", cfg.Credentials.Usernames["rbriggs"].Name)
	assert.Equal(t, "some_signature_key", cfg.Cookie.Key)
}

func TestFileSource_MissingKeys(t *testing.T) {
	_, err := FileSource{Path: "testdata/missing_cookie.yaml"}.Load(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cookie.name")
	assert.Contains(t, err.Error(), "cookie.key")
}

func TestFileSource_NotFound(t *testing.T) {
	_, err := FileSource{Path: "testdata/nope.yaml"}.Load(context.Background())
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLogin(t *testing.T) {
	auth := New(FileSource{Path: "testdata/config.yaml"})

	tests := []struct {
		name     string
		username string
		password string
		wantErr  bool
		wantName string
	}{
		{name: "plain password", username: "rbriggs", password: "def", wantName: "Rebecca Briggs"},
		{name: "case-insensitive username", username: " JSMITH ", password: "abc", wantName: "John Smith"},
		{name: "wrong password", username: "rbriggs", password: "nope", wantErr: true},
		{name: "unknown user", username: "ghost", password: "def", wantErr: true},
		{name: "empty", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ticket, err := auth.Login(context.Background(), tt.username, tt.password)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidCredentials)
				assert.Nil(t, ticket)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, ticket.Identity.Name)
			assert.Equal(t, "some_cookie_name", ticket.CookieName)
			assert.NotEmpty(t, ticket.Token)
		})
	}
}

func TestLogin_BcryptHash(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "config.yaml")
	doc := "credentials:\n  usernames:\n    admin:\n      name: Admin\n      password: \"" + string(hash) + "\"\n" +
		"cookie:\n  name: c\n  key: k\n  expiry_days: 1\n"
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))

	auth := New(FileSource{Path: path})

	_, err = auth.Login(context.Background(), "admin", "s3cret")
	assert.NoError(t, err)

	_, err = auth.Login(context.Background(), "admin", string(hash))
	assert.ErrorIs(t, err, ErrInvalidCredentials, "the hash itself is not a password")
}

func TestRestore(t *testing.T) {
	auth := New(FileSource{Path: "testdata/config.yaml"})
	ctx := context.Background()

	ticket, err := auth.Login(ctx, "rbriggs", "def")
	require.NoError(t, err)

	jar := map[string]string{ticket.CookieName: ticket.Token}
	identity, err := auth.Restore(ctx, func(name string) string { return jar[name] })
	require.NoError(t, err)
	require.NotNil(t, identity)
	assert.Equal(t, "rbriggs", identity.Username)
	assert.Equal(t, "Rebecca Briggs", identity.Name)

	identity, err = auth.Restore(ctx, func(string) string { return "" })
	require.NoError(t, err)
	assert.Nil(t, identity)

	identity, err = auth.Restore(ctx, func(string) string { return ticket.Token + "x" })
	require.NoError(t, err)
	assert.Nil(t, identity, "tampered cookie")
}

func TestRestore_Expired(t *testing.T) {
	auth := New(FileSource{Path: "testdata/config.yaml"})
	ctx := context.Background()

	ticket, err := auth.Login(ctx, "rbriggs", "def")
	require.NoError(t, err)

	auth.now = func() time.Time { return time.Now().Add(31 * 24 * time.Hour) }
	identity, err := auth.Restore(ctx, func(string) string { return ticket.Token })
	require.NoError(t, err)
	assert.Nil(t, identity)
}

func TestRestore_ForeignKey(t *testing.T) {
	ctx := context.Background()
	ticket, err := New(FileSource{Path: "testdata/config.yaml"}).Login(ctx, "rbriggs", "def")
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "config.yaml")
	doc := "credentials:\n  usernames:\n    rbriggs:\n      name: R\n      password: def\n" +
		"cookie:\n  name: some_cookie_name\n  key: rotated\n  expiry_days: 30\n"
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))

	identity, err := New(FileSource{Path: path}).Restore(ctx, func(string) string { return ticket.Token })
	require.NoError(t, err)
	assert.Nil(t, identity)
}
