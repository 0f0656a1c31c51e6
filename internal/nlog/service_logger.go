package nlog

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
)

// Logger is what subsystems log through, one format string at a time.
type Logger interface {
	Logf(format string, v ...any)
}

type subsystemLogger struct {
	filename string
	logger   *ServiceLogger
}

func (s *subsystemLogger) Logf(format string, v ...any) {
	s.logger.Logf(s.filename, format, v...)
}

type logEntry struct {
	filename  string
	formatted string
}

// ServiceLogger fans log lines out to one file per subsystem (service,
// repository, handler, feed...) under a single log directory. Writes go
// through an inbox channel so logging never blocks a transition.
type ServiceLogger struct {
	dir string

	fileMapper map[string]*os.File
	logMapper  map[string]*log.Logger

	lock           sync.RWMutex
	currentLogFunc func(*log.Logger, string, ...any)

	inbox chan logEntry
}

func NewServiceLogger(dir string, logging bool) (*ServiceLogger, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	s := &ServiceLogger{
		dir:            dir,
		fileMapper:     make(map[string]*os.File),
		logMapper:      make(map[string]*log.Logger),
		currentLogFunc: nilLogf,
		inbox:          make(chan logEntry, 600),
	}

	if logging {
		s.currentLogFunc = defaultLogf
	}

	return s, nil
}

func (s *ServiceLogger) RegisterSubsystem(filename string) (Logger, error) {
	file, err := os.OpenFile(filepath.Join(s.dir, filename+".log"), os.O_WRONLY|os.O_APPEND|os.O_CREATE|os.O_TRUNC, 0666)
	if err != nil {
		return nil, err
	}

	s.lock.Lock()
	defer s.lock.Unlock()
	s.logMapper[filename] = log.New(file, fmt.Sprintf("[tracker %s]: ", filename), log.Ldate|log.Ltime)
	s.fileMapper[filename] = file
	return &subsystemLogger{filename, s}, nil
}

func (s *ServiceLogger) EnableLogging() {
	s.lock.Lock()
	s.currentLogFunc = defaultLogf
	s.lock.Unlock()
}

func (s *ServiceLogger) DisableLogging() {
	s.lock.Lock()
	s.currentLogFunc = nilLogf
	s.lock.Unlock()
}

func (s *ServiceLogger) Logf(filename, format string, v ...any) {
	s.inbox <- logEntry{filename, fmt.Sprintf(format, v...)}
}

func (s *ServiceLogger) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-s.inbox:
			s.actualWrite(msg.filename, msg.formatted)
		}
	}
}

func (s *ServiceLogger) actualWrite(filename, formatted string) error {
	s.lock.Lock()
	logFunc := s.currentLogFunc
	logger, ok := s.logMapper[filename]
	s.lock.Unlock()

	if !ok {
		return fmt.Errorf("Logger is not setup for this filename")
	}
	if logFunc != nil {
		logFunc(logger, formatted)
	}
	return nil
}

func (s *ServiceLogger) CloseAll() {
	s.lock.Lock()
	defer s.lock.Unlock()

	for _, file := range s.fileMapper {
		file.Sync()
		file.Close()
	}
	clear(s.fileMapper)
	clear(s.logMapper)
}

func defaultLogf(l *log.Logger, format string, a ...any) {
	l.Printf(format, a...)
}

func nilLogf(*log.Logger, string, ...any) {}
