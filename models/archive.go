package models

import "time"

type ArchiveRequest struct {
	ID        string        `json:"id"`
	Name      string        `json:"name"`
	RootDir   string        `json:"root_dir"`
	Delay     time.Duration `json:"delay"`
	StartedAt time.Time     `json:"started_at"`
}

type ActiveStream struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Pid       int       `json:"pid"`
	StartedAt time.Time `json:"started_at"`
}

type StreamStats struct {
	Chunks   int           `json:"chunks"`
	Bytes    int64         `json:"bytes"`
	Duration time.Duration `json:"duration"`
}
