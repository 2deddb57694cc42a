package ctl

import "time"

// Config holds the connection settings shared by every command.
type Config struct {
	BaseURL string        // Base URL of the service
	Timeout time.Duration // HTTP request timeout
	Verbose bool          // Enable verbose logging
}

// DemoConfig configures the demo run.
type DemoConfig struct {
	Config
	Events     int    // Number of events to create
	Workers    int    // Number of concurrent roster uploads
	RosterSize int    // Schools named per roster
	Noise      int    // Unknown lines added per roster
	Seed       uint64 // Faker seed, 0 picks one from the clock
}

// Stats holds demo run statistics.
type Stats struct {
	EventsCreated    int
	EventsDuplicate  int
	RostersUploaded  int
	RostersReplayed  int
	SchoolsCredited  int
	CreditsReplayed  int
	UnmatchedLines   int
	UploadsFailed    int
	RankingsVerified int
	StartTime        time.Time
	EndTime          time.Time
	Duration         time.Duration
}
