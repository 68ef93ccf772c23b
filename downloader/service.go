// Package downloader : orchestration of yt-dlp downloads and the task
// queue the dashboard polls.
package downloader

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"quasar/tubedash/media"
	"quasar/tubedash/store"
	"quasar/tubedash/ytdlp"
)

// validateTimeout bounds the URL probe on task creation.
const validateTimeout = 30 * time.Second

// ErrEmptyURL marks a request that arrived without a URL. A caller
// mistake, not a server fault.
var ErrEmptyURL = errors.New("url is required")

type Service struct {
	Orch     *Orchestrator
	Store    *store.Store // optional history sink
	JobQueue chan *Task
	tasks    map[int64]*Task
	mu       sync.Mutex
	nextID   int64
}

func NewService(orch *Orchestrator, st *store.Store) *Service {
	s := &Service{
		Orch:     orch,
		Store:    st,
		JobQueue: make(chan *Task, 100),
		tasks:    make(map[int64]*Task),
		nextID:   1,
	}

	go s.worker()

	return s
}

// CreateDownload validates the URL, registers a task and queues it.
func (s *Service) CreateDownload(req DownloadPayload) (*Task, error) {
	if req.URL == "" {
		return nil, ErrEmptyURL
	}

	ctx, cancel := context.WithTimeout(context.Background(), validateTimeout)
	defer cancel()
	if !s.Orch.Client.Validate(ctx, req.URL) {
		return nil, fmt.Errorf("create download: %s: %w", req.URL, ytdlp.ErrUnsupportedURL)
	}

	s.mu.Lock()
	newTask := &Task{
		ID:      s.nextID,
		URL:     req.URL,
		Source:  DetectSource(req.URL).String(),
		Quality: req.Quality,
		Status:  StatusPending,
		payload: req,
	}
	s.nextID++
	s.tasks[newTask.ID] = newTask
	s.mu.Unlock()

	s.JobQueue <- newTask

	log.Println("[Downloader] Pushed download to the queue")

	return newTask, nil
}

// Task returns a snapshot of one task.
func (s *Service) Task(id int64) (*Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	task, ok := s.tasks[id]
	if !ok {
		return nil, errors.New("task not found")
	}

	snapshot := *task
	return &snapshot, nil
}

// Tasks returns snapshots of all tasks, newest first.
func (s *Service) Tasks() []*Task {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*Task, 0, len(s.tasks))
	for _, task := range s.tasks {
		snapshot := *task
		out = append(out, &snapshot)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out
}

func (s *Service) worker() {
	log.Println("[Worker] Starting up. Ready for jobs.")

	for task := range s.JobQueue {
		log.Printf("[Worker] Picked up job: %d", task.ID)

		s.setStatus(task.ID, StatusDownloading)

		err := s.runDownloadJob(task)

		if err != nil {
			log.Printf("[Worker] ERROR job %d: %v", task.ID, err)
			s.failTask(task.ID, err)
		} else {
			log.Printf("[Worker] FINISHED job %d", task.ID)
		}
	}
}

func (s *Service) runDownloadJob(task *Task) error {
	ctx := context.Background()

	obs := func(p media.Progress) {
		s.applyProgress(task.ID, p)
	}

	path, info, err := s.Orch.Download(ctx, task.payload, obs)
	if err != nil {
		s.recordHistory(task, info, "", err)
		return err
	}

	s.completeTask(task.ID, path, info)
	s.recordHistory(task, info, path, nil)
	return nil
}

// applyProgress folds one normalized progress record into the task.
func (s *Service) applyProgress(id int64, p media.Progress) {
	s.mu.Lock()
	defer s.mu.Unlock()

	task, ok := s.tasks[id]
	if !ok {
		return
	}

	switch p.Status {
	case media.StatusDownloading:
		task.Status = StatusDownloading
		// Merged downloads report each stream separately; never walk the
		// bar backwards between them.
		if p.Percentage > task.Progress {
			task.Progress = p.Percentage
		}
		task.Speed = p.Speed
		task.ETA = p.ETA
	case media.StatusMerging:
		task.Status = StatusMerging
		task.Progress = 100
		task.Speed, task.ETA = "", ""
	case media.StatusFinished:
		task.Progress = 100
		task.Speed, task.ETA = "", ""
	case media.StatusError:
		task.Error = p.ErrorMsg
	}
}

func (s *Service) setStatus(id int64, status TaskStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if task, ok := s.tasks[id]; ok {
		task.Status = status
	}
}

func (s *Service) completeTask(id int64, path string, info *media.MediaMetadata) {
	s.mu.Lock()
	defer s.mu.Unlock()

	task, ok := s.tasks[id]
	if !ok {
		return
	}
	task.Status = StatusComplete
	task.Progress = 100
	task.Speed, task.ETA = "", ""
	task.FilePath = path
	if info != nil {
		task.Title = info.Title
	}
}

func (s *Service) failTask(id int64, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	task, ok := s.tasks[id]
	if !ok {
		return
	}
	task.Status = StatusFailed
	if task.Error == "" {
		task.Error = err.Error()
	}
}

// recordHistory persists the outcome, enriched with an ffprobe pass over
// the finished file when available.
func (s *Service) recordHistory(task *Task, info *media.MediaMetadata, path string, runErr error) {
	if s.Store == nil {
		return
	}

	rec := &store.Download{
		URL:      task.URL,
		Source:   task.Source,
		Quality:  task.payload.Quality,
		FilePath: path,
		Status:   string(StatusComplete),
	}
	if info != nil {
		rec.Title = info.Title
		rec.Uploader = info.Uploader
	}
	if runErr != nil {
		rec.Status = string(StatusFailed)
		rec.Error = runErr.Error()
	}

	if path != "" {
		if probed, err := media.ProbeFile(s.Orch.FFprobePath, path); err != nil {
			log.Printf("[Downloader] WARN: probing %s: %v", path, err)
		} else {
			rec.Format = probed.Format
			rec.DurationMs = probed.DurationMs
			rec.SizeBytes = probed.Size
			rec.Bitrate = probed.Bitrate
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if _, err := s.Store.SaveDownload(ctx, rec); err != nil {
		log.Printf("[Downloader] WARN: recording history for %s: %v", task.URL, err)
	}
}
