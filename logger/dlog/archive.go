package dlog

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/waverider-dev/discord-bridge/integrations/spaces"
)

// Archiver rotates the current log files into a dated directory once a day
// and, when object storage is configured, mirrors the rotated files there.
type Archiver struct {
	processing atomic.Bool
	uploader   *spaces.Client
}

func (a *Archiver) process() {
	Info("Started log archive")
	a.processing.Store(true)
	defer a.processing.Store(false)

	yesterday := time.Now().AddDate(0, 0, -1).Format("2006-01-02")
	archiveDir := "logs/" + yesterday

	tmp := archiveDir
	counter := 1
	err := os.Mkdir(archiveDir, 0755)
	for os.IsExist(err) {
		archiveDir = tmp + "-" + strconv.Itoa(counter)
		counter++
		err = os.Mkdir(archiveDir, 0755)
	}
	if err != nil {
		Error("Failed to create archive directory", "dir", archiveDir, "err", err)
		return
	}

	dir, err := os.ReadDir("logs")
	if err != nil {
		Error("Failed to read log directory", "err", err)
		return
	}

	for _, entry := range dir {
		if !entry.Type().IsRegular() {
			continue
		}
		if err := a.rotate(entry.Name(), archiveDir); err != nil {
			Error("Failed to archive log", "fileName", entry.Name(), "err", err)
			return
		}
	}
}

func (a *Archiver) rotate(name, archiveDir string) error {
	old, err := os.OpenFile("logs/"+name, os.O_RDONLY, 0600)
	if err != nil {
		return err
	}
	defer old.Close()

	archived, err := os.OpenFile(archiveDir+"/"+name, os.O_WRONLY|os.O_CREATE, 0600)
	if err != nil {
		return err
	}
	defer archived.Close()

	written, err := copyFile(archived, old)
	if err != nil {
		return err
	}
	Info("Copied log", "fileName", name, "written", written)

	if err := os.Truncate("logs/"+name, 0); err != nil {
		return err
	}

	if a.uploader != nil {
		if err := a.uploader.UploadFile(archiveDir+"/"+name, archiveDir+"/"+name); err != nil {
			// Keep the local copy either way.
			Warn("Failed to upload archived log", "fileName", name, "err", err)
		}
	}
	return nil
}

func copyFile(writer io.Writer, input *os.File) (int, error) {
	stat, err := input.Stat()
	if err != nil {
		return 0, err
	}
	bytes := make([]byte, stat.Size())
	read, err := input.ReadAt(bytes, 0)
	if err != nil && err != io.EOF {
		return 0, err
	}
	if stat.Size() != int64(read) {
		return 0, fmt.Errorf("expected %d bytes, got %d", stat.Size(), read)
	}
	return writer.Write(bytes)
}

// BufferedFile diverts writes to a side buffer while the archiver is
// rotating, then replays them into the main file afterwards.
type BufferedFile struct {
	Archiver   *Archiver
	File       *os.File
	BufferFile *os.File
	buffered   bool
}

func (b *BufferedFile) Write(p []byte) (n int, err error) {
	if b.Archiver.processing.Load() {
		b.buffered = true
		_, err := b.BufferFile.Write(p)
		if err != nil {
			return 0, err
		}
		return len(p), nil
	}
	if b.buffered {
		b.buffered = false
		_, err := copyFile(b.File, b.BufferFile)
		if err != nil {
			return 0, err
		}
		if err := os.Truncate(b.BufferFile.Name(), 0); err != nil {
			return 0, err
		}
	}
	return b.File.Write(p)
}
