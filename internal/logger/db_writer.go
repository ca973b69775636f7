package logger

import (
	"context"
	"fmt"
	"sync"
	"time"

	common_models "go-ojs/internal/common/models"
	"go-ojs/internal/database"

	"go.uber.org/zap/zapcore"
)

// LogEntry holds the data passed from Zap to our worker
type LogEntry struct {
	Level   zapcore.Level
	Message string
	Caller  string // Function name
}

// LogSink persists application log rows.
type LogSink interface {
	WriteLog(ctx context.Context, log common_models.Log) error
}

type mongoSink struct {
	db *database.MongodbDB
}

func NewMongoSink(db *database.MongodbDB) LogSink {
	return &mongoSink{db: db}
}

func (s *mongoSink) WriteLog(ctx context.Context, log common_models.Log) error {
	_, err := s.db.DB.Collection("logs").InsertOne(ctx, log)
	return err
}

type postgresSink struct {
	db *database.PostgresDB
}

func NewPostgresSink(db *database.PostgresDB) LogSink {
	return &postgresSink{db: db}
}

func (s *postgresSink) WriteLog(ctx context.Context, log common_models.Log) error {
	_, err := s.db.DB.ExecContext(ctx,
		`INSERT INTO app_logs (app_id, message, caller, log_level_id, created_on_utc) VALUES ($1, $2, $3, $4, $5)`,
		log.AppID, log.Message, log.Caller, log.LogLevelId, log.CreatedOnUtc)
	return err
}

// DBLogWriter handles the async writing
type DBLogWriter struct {
	sink    LogSink
	logChan chan LogEntry
	appId   string
	done    chan struct{}
	once    sync.Once

	mu     sync.RWMutex
	closed bool
}

// NewDBLogWriter initializes the worker
func NewDBLogWriter(sink LogSink, appId string) *DBLogWriter {
	writer := &DBLogWriter{
		sink:    sink,
		logChan: make(chan LogEntry, 1000),
		appId:   appId,
		done:    make(chan struct{}),
	}

	go writer.processLogs()

	return writer
}

// AddLog is called by our Zap hook
// Entries arriving after Close are dropped.
func (w *DBLogWriter) AddLog(entry LogEntry) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.closed {
		return
	}

	select {
	case w.logChan <- entry:
	default:
		// Channel full: drop rather than block the request path
		fmt.Println("DB Log Channel Full! Dropping log:", entry.Message)
	}
}

// Close stops the worker after draining queued entries.
func (w *DBLogWriter) Close() {
	w.once.Do(func() {
		w.mu.Lock()
		w.closed = true
		close(w.logChan)
		w.mu.Unlock()
		<-w.done
	})
}

func (w *DBLogWriter) processLogs() {
	defer close(w.done)
	for entry := range w.logChan {
		logRecord := common_models.Log{
			AppID:        w.appId,
			Message:      entry.Message,
			Caller:       entry.Caller,
			LogLevelId:   mapLevelToInt(entry.Level),
			CreatedOnUtc: time.Now().UTC(),
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := w.sink.WriteLog(ctx, logRecord); err != nil {
			fmt.Println("Failed to persist log:", err)
		}
		cancel()
	}
}

func mapLevelToInt(l zapcore.Level) int {
	switch l {
	case zapcore.DebugLevel:
		return 10
	case zapcore.InfoLevel:
		return 20
	case zapcore.WarnLevel:
		return 30
	case zapcore.ErrorLevel:
		return 40
	case zapcore.FatalLevel:
		return 50
	default:
		return 20
	}
}
