package services

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/Ernest2026/groupcon-chatapp-backend/internal/common"
	"github.com/Ernest2026/groupcon-chatapp-backend/internal/dbx"
	"github.com/Ernest2026/groupcon-chatapp-backend/internal/logging"
	"github.com/Ernest2026/groupcon-chatapp-backend/internal/server/models"
	"github.com/Ernest2026/groupcon-chatapp-backend/internal/server/pubsub"
	groupsrepo "github.com/Ernest2026/groupcon-chatapp-backend/internal/server/repositories/groups"
	messagesrepo "github.com/Ernest2026/groupcon-chatapp-backend/internal/server/repositories/messages"
	profilesrepo "github.com/Ernest2026/groupcon-chatapp-backend/internal/server/repositories/profiles"
	usersrepo "github.com/Ernest2026/groupcon-chatapp-backend/internal/server/repositories/users"
)

// --- shared helpers ---

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return db, mock
}

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, nil)))
}

func testBroker(t *testing.T) *pubsub.Broker {
	t.Helper()
	b := pubsub.NewBroker(testLogger())
	t.Cleanup(b.Close)
	return b
}

// --- fake repositories ---

type setGroupCall struct {
	userID  string
	groupID *string
}

type fakeUsersRepo struct {
	mu sync.Mutex

	byID       map[string]*models.User
	byEmail    map[string]*models.User
	byNickname map[string]*models.User // key: nickname + "/" + groupID
	byGroup    []*models.User

	created   []*models.User
	createErr error

	setGroupCalls []setGroupCall
	setGroupErr   error

	clearedGroups []string
	deletedAnon   []string
}

func newFakeUsersRepo() *fakeUsersRepo {
	return &fakeUsersRepo{
		byID:       map[string]*models.User{},
		byEmail:    map[string]*models.User{},
		byNickname: map[string]*models.User{},
	}
}

func (f *fakeUsersRepo) add(u *models.User) *models.User {
	f.byID[u.ID] = u
	if u.Email != nil {
		f.byEmail[*u.Email] = u
	}
	if u.Nickname != nil && u.GroupID != nil {
		f.byNickname[*u.Nickname+"/"+*u.GroupID] = u
	}
	return u
}

func (f *fakeUsersRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return nil, f.createErr
	}
	if u.ID == "" {
		u.ID = fmt.Sprintf("u-%d", len(f.created)+1)
	}
	f.created = append(f.created, u)
	return f.add(u), nil
}

func (f *fakeUsersRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.byID[id]; ok {
		return u, nil
	}
	return nil, common.ErrorNotFound
}

func (f *fakeUsersRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.byEmail[email]; ok {
		return u, nil
	}
	return nil, common.ErrorNotFound
}

func (f *fakeUsersRepo) GetByNicknameInGroup(ctx context.Context, nickname, groupID string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.byNickname[nickname+"/"+groupID]; ok {
		return u, nil
	}
	return nil, common.ErrorNotFound
}

func (f *fakeUsersRepo) ListByGroup(ctx context.Context, groupID string) ([]*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.byGroup, nil
}

func (f *fakeUsersRepo) SetGroup(ctx context.Context, userID string, groupID *string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.setGroupErr != nil {
		return f.setGroupErr
	}
	f.setGroupCalls = append(f.setGroupCalls, setGroupCall{userID: userID, groupID: groupID})
	if u, ok := f.byID[userID]; ok {
		u.GroupID = groupID
	}
	return nil
}

func (f *fakeUsersRepo) ClearGroupForVerified(ctx context.Context, groupID string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.clearedGroups = append(f.clearedGroups, groupID)
	return 1, nil
}

func (f *fakeUsersRepo) DeleteAnonymousInGroup(ctx context.Context, groupID string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deletedAnon = append(f.deletedAnon, groupID)
	return 1, nil
}

type fakeGroupsRepo struct {
	byID map[string]*models.Group

	created   []*models.Group
	createErr error

	deleted   []string
	deleteErr error
}

func newFakeGroupsRepo() *fakeGroupsRepo {
	return &fakeGroupsRepo{byID: map[string]*models.Group{}}
}

func (f *fakeGroupsRepo) Create(ctx context.Context, g *models.Group) (*models.Group, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.created = append(f.created, g)
	f.byID[g.ID] = g
	return g, nil
}

func (f *fakeGroupsRepo) GetByID(ctx context.Context, id string) (*models.Group, error) {
	if g, ok := f.byID[id]; ok {
		return g, nil
	}
	return nil, common.ErrorNotFound
}

func (f *fakeGroupsRepo) Delete(ctx context.Context, id string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, id)
	delete(f.byID, id)
	return nil
}

type fakeProfilesRepo struct {
	byUserID map[string]*models.Profile

	createdFor []string

	imageUpdates map[string]string
}

func newFakeProfilesRepo() *fakeProfilesRepo {
	return &fakeProfilesRepo{
		byUserID:     map[string]*models.Profile{},
		imageUpdates: map[string]string{},
	}
}

func (f *fakeProfilesRepo) Create(ctx context.Context, userID string) (*models.Profile, error) {
	f.createdFor = append(f.createdFor, userID)
	p := &models.Profile{UserID: userID}
	f.byUserID[userID] = p
	return p, nil
}

func (f *fakeProfilesRepo) GetByUserID(ctx context.Context, userID string) (*models.Profile, error) {
	if p, ok := f.byUserID[userID]; ok {
		return p, nil
	}
	return nil, common.ErrorNotFound
}

func (f *fakeProfilesRepo) UpdateDetails(ctx context.Context, userID, bio, phone string) (*models.Profile, error) {
	p, ok := f.byUserID[userID]
	if !ok {
		return nil, common.ErrorNotFound
	}
	p.Bio = bio
	p.Phone = phone
	return p, nil
}

func (f *fakeProfilesRepo) UpdateImage(ctx context.Context, userID, image string) (*models.Profile, error) {
	p, ok := f.byUserID[userID]
	if !ok {
		return nil, common.ErrorNotFound
	}
	f.imageUpdates[userID] = image
	p.Image = image
	return p, nil
}

type fakeMessagesRepo struct {
	mu sync.Mutex

	created   []*models.Message
	createErr error

	listOut []*models.Message
	listErr error

	audioPaths []string
}

func (f *fakeMessagesRepo) Create(ctx context.Context, m *models.Message) (*models.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return nil, f.createErr
	}
	if m.ID == "" {
		m.ID = fmt.Sprintf("m-%d", len(f.created)+1)
	}
	f.created = append(f.created, m)
	return m, nil
}

func (f *fakeMessagesRepo) ListByGroup(ctx context.Context, groupID string, skip int) ([]*models.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.listOut, nil
}

func (f *fakeMessagesRepo) ListAudioPaths(ctx context.Context, groupID string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.audioPaths, nil
}

// fakeRepoManager hands out the same fakes regardless of the DBTX, so code
// running inside WithTx sees them too.
type fakeRepoManager struct {
	users    *fakeUsersRepo
	groups   *fakeGroupsRepo
	profiles *fakeProfilesRepo
	messages *fakeMessagesRepo
}

func newFakeRepoManager() *fakeRepoManager {
	return &fakeRepoManager{
		users:    newFakeUsersRepo(),
		groups:   newFakeGroupsRepo(),
		profiles: newFakeProfilesRepo(),
		messages: &fakeMessagesRepo{},
	}
}

func (f *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }

func (f *fakeRepoManager) Users(db dbx.DBTX) usersrepo.Repository { return f.users }

func (f *fakeRepoManager) Groups(db dbx.DBTX) groupsrepo.Repository { return f.groups }

func (f *fakeRepoManager) Profiles(db dbx.DBTX) profilesrepo.Repository { return f.profiles }

func (f *fakeRepoManager) Messages(db dbx.DBTX) messagesrepo.Repository { return f.messages }

// --- fake storage ---

type fakeStorage struct {
	mu sync.Mutex

	saved   map[string][]byte
	saveErr error

	deleted   []string
	deleteErr error
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{saved: map[string][]byte{}}
}

func (f *fakeStorage) Save(ctx context.Context, path string, r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saved[path] = data
	return nil
}

func (f *fakeStorage) Delete(ctx context.Context, path string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, path)
	return nil
}
