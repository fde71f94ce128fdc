package repomanager

import (
	"context"
	"database/sql"

	"github.com/Ernest2026/groupcon-chatapp-backend/internal/dbx"
	"github.com/Ernest2026/groupcon-chatapp-backend/internal/server/repositories/groups"
	"github.com/Ernest2026/groupcon-chatapp-backend/internal/server/repositories/messages"
	"github.com/Ernest2026/groupcon-chatapp-backend/internal/server/repositories/profiles"
	"github.com/Ernest2026/groupcon-chatapp-backend/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Groups(db dbx.DBTX) groups.Repository
	Profiles(db dbx.DBTX) profiles.Repository
	Messages(db dbx.DBTX) messages.Repository
}
