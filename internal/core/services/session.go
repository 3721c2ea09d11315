package services

import (
	"context"
	"fmt"
	"os"
	"time"

	log "github.com/sirupsen/logrus"

	"model-platform-sdk/internal/api"
	"model-platform-sdk/internal/core/domain"
	ports "model-platform-sdk/internal/core/ports/output"
)

// Session is the connection every service borrows: the authenticated API handle,
// the artifact store and the model history server id. It is read-only once built.
type Session struct {
	api       ports.PlatformAPI
	artifacts ports.ArtifactStore
	serverID  string
	tempDir   string
	now       func() time.Time
}

type SessionOptions struct {
	UserID   string
	Password string
	// ServerID skips model history server discovery when set.
	ServerID string
	// TempDir receives serialized in-memory models; defaults to os.TempDir().
	TempDir string
}

// NewSession wraps an already authenticated API handle.
func NewSession(platform ports.PlatformAPI, artifacts ports.ArtifactStore, serverID, tempDir string) *Session {
	if tempDir == "" {
		tempDir = os.TempDir()
	}
	return &Session{
		api:       platform,
		artifacts: artifacts,
		serverID:  serverID,
		tempDir:   tempDir,
		now:       time.Now,
	}
}

// Connect logs in (when a user id is given) and resolves the model history server.
func Connect(ctx context.Context, platform ports.PlatformAPI, artifacts ports.ArtifactStore, opts SessionOptions) (*Session, error) {
	if opts.UserID != "" {
		if err := platform.Login(ctx, opts.UserID, opts.Password); err != nil {
			return nil, fmt.Errorf("login: %w", err)
		}
	}

	serverID := opts.ServerID
	if serverID == "" {
		var err error
		serverID, err = discoverModelHistoryServer(ctx, platform)
		if err != nil {
			return nil, err
		}
	}

	log.WithFields(log.Fields{
		"server_id": serverID,
		"user":      opts.UserID,
	}).Info("platform session established")

	return NewSession(platform, artifacts, serverID, opts.TempDir), nil
}

func discoverModelHistoryServer(ctx context.Context, platform ports.PlatformAPI) (string, error) {
	svcs, err := platform.ListServices(ctx)
	if err != nil {
		return "", fmt.Errorf("list services: %w", err)
	}
	for _, svc := range svcs {
		if svc.Type == api.ServiceTypeModelHistory {
			return svc.ID, nil
		}
	}
	return "", domain.ErrNoModelHistoryServer
}

func (s *Session) API() ports.PlatformAPI {
	return s.api
}

func (s *Session) ServerID() string {
	return s.serverID
}

func (s *Session) TempDir() string {
	return s.tempDir
}

func (s *Session) nowMillis() int64 {
	return s.now().UnixMilli()
}

// reportDelete turns a removal error into a DeleteResult and logs failures.
func reportDelete(op, target string, err error) domain.DeleteResult {
	if err != nil {
		log.WithError(err).WithFields(log.Fields{
			"op":     op,
			"target": target,
		}).Warn("platform removal failed")
		return domain.DeleteFailed(op, target, err)
	}
	return domain.Deleted(op, target)
}
