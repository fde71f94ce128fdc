package services

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"io"
	"path/filepath"
	"sync"
	"time"

	"github.com/Ernest2026/groupcon-chatapp-backend/internal/common"
	"github.com/Ernest2026/groupcon-chatapp-backend/internal/logging"
	"github.com/Ernest2026/groupcon-chatapp-backend/internal/server/models"
	"github.com/Ernest2026/groupcon-chatapp-backend/internal/server/pubsub"
	"github.com/Ernest2026/groupcon-chatapp-backend/internal/server/repositories/repomanager"
	"github.com/Ernest2026/groupcon-chatapp-backend/internal/server/storage"
	"github.com/Ernest2026/groupcon-chatapp-backend/internal/server/transcribe"
	"github.com/Ernest2026/groupcon-chatapp-backend/internal/shortid"
)

// IngestService runs the audio message pipeline: store the blob, transcribe
// it, annotate word occurrences, persist the message and fan it out. Uploads
// are fire-and-forget; the uploader learns nothing about pipeline failures,
// which surface in the log instead.
type IngestService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	broker      *pubsub.Broker
	storage     storage.Storage
	transcriber transcribe.Transcriber
	logger      logging.Logger

	wg sync.WaitGroup
}

// NewIngestService wires the pipeline. transcriber may be nil, in which case
// audio messages are stored and delivered without transcripts.
func NewIngestService(db *sql.DB, m repomanager.RepositoryManager, broker *pubsub.Broker,
	st storage.Storage, tr transcribe.Transcriber, logger logging.Logger) *IngestService {
	return &IngestService{
		db:          db,
		repomanager: m,
		broker:      broker,
		storage:     st,
		transcriber: tr,
		logger:      logger,
	}
}

// audioPath builds a collision-resistant public path keeping the upload's
// original extension.
func audioPath(filename string) (string, error) {
	id, err := shortid.New()
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("/public/audio/%s%d%s", id, time.Now().UnixMilli(), filepath.Ext(filename)), nil
}

// SendAudioMessage starts the ingestion pipeline and returns as soon as the
// upload is admitted. The stream must stay readable until the pipeline has
// drained it.
func (s *IngestService) SendAudioMessage(ctx context.Context, filename, mimeType string, stream io.Reader, recieverID string, anonymous bool, requester Requester) error {
	if !requester.SignedIn() {
		return fmt.Errorf("not signed in: %w", common.ErrorForbidden)
	}

	path, err := audioPath(filename)
	if err != nil {
		return fmt.Errorf("error generating audio path: %w", err)
	}

	// The pipeline outlives the request, so it must not die with the
	// request context.
	detached := context.WithoutCancel(ctx)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.ingest(detached, path, mimeType, stream, recieverID, requester.UserID, anonymous)
	}()

	return nil
}

func (s *IngestService) ingest(ctx context.Context, path, mimeType string, stream io.Reader, recieverID, senderID string, anonymous bool) {

	log := s.logger.With("path", path, "sender", senderID, "group", recieverID)

	// One pass over the stream feeds both the blob store and the buffer
	// the transcriber reads from. The blob write completes before the
	// message exists anywhere, so a delivered message always has readable
	// audio.
	var buf bytes.Buffer
	if err := s.storage.Save(ctx, path, io.TeeReader(stream, &buf)); err != nil {
		log.Error(ctx, "audio upload failed", "error", err)
		return
	}

	var audioTrans *string
	var audioTime []models.TranscriptWord

	if s.transcriber != nil {
		result, err := s.transcriber.Transcribe(ctx, buf.Bytes(), mimeType)
		if err != nil {
			log.Error(ctx, "transcription failed", "error", err)
		} else {
			audioTrans = &result.Transcript
			audioTime = transcribe.Annotate(result.Words)
		}
	}

	userRepo := s.repomanager.Users(s.db)
	messageRepo := s.repomanager.Messages(s.db)

	sender, err := userRepo.GetByID(ctx, senderID)
	if err != nil {
		log.Error(ctx, "audio ingestion failed: unknown sender", "error", err)
		return
	}

	message, err := messageRepo.Create(ctx, &models.Message{
		Audio:      &path,
		AudioTrans: audioTrans,
		AudioTime:  audioTime,
		SenderID:   sender.ID,
		RecieverID: recieverID,
		Anonymous:  anonymous,
	})
	if err != nil {
		log.Error(ctx, "audio ingestion failed: error creating message", "error", err)
		return
	}

	message.Sender = &models.Sender{
		FullName: sender.FullName,
		Nickname: sender.DisplayNickname(),
	}

	s.broker.Publish(ctx, pubsub.TopicMessageAdded, recieverID, message)
}

// Wait blocks until every in-flight ingestion has finished. Used on
// shutdown.
func (s *IngestService) Wait() {
	s.wg.Wait()
}
