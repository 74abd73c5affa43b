package profile

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/pkg/errors"
)

// Profile is the configuration to start the main server.
type Profile struct {
	// Mode can be "prod" or "dev" or "demo"
	Mode string
	// Addr is the binding address for server
	Addr string
	// Port is the binding port for server
	Port int
	// Data is the data directory
	Data string
	// DSN points to where habitloop stores its own data
	DSN string
	// Driver is the database driver (sqlite or postgres)
	Driver string
	// Version is the current version of server
	Version string
	// InstanceURL is the url of your habitloop instance
	InstanceURL string
	// Timezone is the IANA identifier used for calendar-day arithmetic (default: UTC)
	Timezone string

	// Progression policy values surfaced to the engine. Overridable through
	// HABITLOOP_XP_AWARD_* and HABITLOOP_STREAK_BUCKETS.
	XPAwardEasy   int
	XPAwardMedium int
	XPAwardHard   int
	// StreakBuckets holds the lower bound of each streak-distribution bucket.
	StreakBuckets []int
}

func (p *Profile) IsDev() bool {
	return p.Mode != "prod"
}

func checkDataDir(dataDir string) (string, error) {
	// Convert to absolute path if relative path is supplied.
	if !filepath.IsAbs(dataDir) {
		relativeDir := filepath.Join(filepath.Dir(os.Args[0]), dataDir)
		absDir, err := filepath.Abs(relativeDir)
		if err != nil {
			return "", err
		}
		dataDir = absDir
	}

	// Trim trailing \ or / in case user supplies
	dataDir = strings.TrimRight(dataDir, "\\/")
	if _, err := os.Stat(dataDir); err != nil {
		return "", errors.Wrapf(err, "unable to access data folder %s", dataDir)
	}
	return dataDir, nil
}

func (p *Profile) Validate() error {
	if p.Mode != "demo" && p.Mode != "dev" && p.Mode != "prod" {
		p.Mode = "demo"
	}

	if p.Mode == "prod" && p.Data == "" {
		if runtime.GOOS == "windows" {
			p.Data = filepath.Join(os.Getenv("ProgramData"), "habitloop")
			if _, err := os.Stat(p.Data); os.IsNotExist(err) {
				if err := os.MkdirAll(p.Data, 0770); err != nil {
					return errors.Wrapf(err, "failed to create data directory %s", p.Data)
				}
			}
		} else {
			p.Data = "/var/opt/habitloop"
		}
	}

	dataDir, err := checkDataDir(p.Data)
	if err != nil {
		return err
	}
	p.Data = dataDir

	if p.Driver == "sqlite" && p.DSN == "" {
		dbFile := fmt.Sprintf("habitloop_%s.db", p.Mode)
		p.DSN = filepath.Join(dataDir, dbFile)
	}

	if p.Timezone == "" {
		p.Timezone = "UTC"
	}

	if p.XPAwardEasy <= 0 {
		p.XPAwardEasy = 10
	}
	if p.XPAwardMedium <= 0 {
		p.XPAwardMedium = 15
	}
	if p.XPAwardHard <= 0 {
		p.XPAwardHard = 25
	}
	if len(p.StreakBuckets) == 0 {
		p.StreakBuckets = []int{0, 1, 7, 30, 90}
	}

	return nil
}
