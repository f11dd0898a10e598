package selfupdate

import (
	"context"
	"errors"
	"fmt"
)

var (
	ErrDevBuild      = errors.New("cannot update a development build")
	ErrAlreadyLatest = errors.New("already running the latest version")
	ErrChecksum      = errors.New("checksum verification failed")
)

// Stage names a step of Update, reported through the progress callback.
type Stage string

const (
	StageCheck    Stage = "check"
	StageDownload Stage = "download"
	StageVerify   Stage = "verify"
	StageExtract  Stage = "extract"
	StageInstall  Stage = "install"
	StageDone     Stage = "done"
)

type UpdateInput struct {
	CurrentVersion string

	// TargetVersion pins a release tag; empty means latest.
	TargetVersion string
}

type UpdateProgress struct {
	Stage   Stage
	Message string
}

// Update downloads the release for the running platform, verifies it
// against the published checksums and swaps it in for the current
// executable. It returns the installed tag.
func (c *Checker) Update(ctx context.Context, input *UpdateInput, progress func(UpdateProgress)) (string, error) {
	if input.CurrentVersion == "(devel)" {
		return "", ErrDevBuild
	}
	report := func(s Stage, format string, args ...any) {
		if progress != nil {
			progress(UpdateProgress{Stage: s, Message: fmt.Sprintf(format, args...)})
		}
	}

	tag := input.TargetVersion
	if tag == "" {
		report(StageCheck, "Checking for the latest release...")
		res, err := c.Check(ctx, &CheckInput{Version: input.CurrentVersion})
		if err != nil {
			return "", fmt.Errorf("check for updates: %w", err)
		}
		if !res.UpdateAvailable {
			return "", ErrAlreadyLatest
		}
		tag = res.LatestVersion
	}

	target := c.target
	asset, err := target.Asset()
	if err != nil {
		return "", err
	}

	report(StageDownload, "Downloading %s (%s)...", tag, asset)
	archive, err := c.fetch(ctx, c.releaseFileURL(tag, asset))
	if err != nil {
		return "", fmt.Errorf("download archive: %w", err)
	}

	report(StageVerify, "Verifying checksum...")
	sums, err := c.fetch(ctx, c.releaseFileURL(tag, "checksums.txt"))
	if err != nil {
		return "", fmt.Errorf("download checksums: %w", err)
	}
	if err := parseChecksums(sums).verify(asset, archive); err != nil {
		return "", err
	}

	report(StageExtract, "Extracting %s...", target.Binary())
	binary, err := extract(asset, archive, target.Binary())
	if err != nil {
		return "", fmt.Errorf("extract binary: %w", err)
	}

	path, err := c.execPath()
	if err != nil {
		return "", fmt.Errorf("resolve executable path: %w", err)
	}
	report(StageInstall, "Installing to %s...", path)
	if err := install(path, binary); err != nil {
		return "", fmt.Errorf("install: %w", err)
	}

	report(StageDone, "Updated to %s", tag)
	return tag, nil
}
