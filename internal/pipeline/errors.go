package pipeline

import (
	"errors"
	"fmt"

	"accentdetector/internal/media"
)

// ErrorKind classifies a pipeline failure by the stage it came from.
type ErrorKind int

const (
	UploadError ErrorKind = iota
	DownloadError
	YouTubeDownloadError
	ExtractionError
	TranscriptionError
	ClassificationError
)

var kindNames = map[ErrorKind]string{
	UploadError:          "upload_error",
	DownloadError:        "download_error",
	YouTubeDownloadError: "youtube_download_error",
	ExtractionError:      "extraction_error",
	TranscriptionError:   "transcription_error",
	ClassificationError:  "classification_error",
}

var kindMessages = map[ErrorKind]string{
	UploadError:          "Failed to save upload",
	DownloadError:        "Failed to download video",
	YouTubeDownloadError: "Failed to process YouTube video",
	ExtractionError:      "Audio extraction failed",
	TranscriptionError:   "Transcription failed",
	ClassificationError:  "Accent analysis failed",
}

func (k ErrorKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("error_kind(%d)", int(k))
}

// StageError is the only error type Detect returns for a failed stage. Its
// message is what clients see.
type StageError struct {
	Kind ErrorKind
	Err  error
}

func (e *StageError) Error() string {
	prefix, ok := kindMessages[e.Kind]
	if !ok {
		prefix = e.Kind.String()
	}
	return fmt.Sprintf("%s: %v", prefix, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// KindOf reports the kind of a StageError anywhere in err's chain.
func KindOf(err error) (ErrorKind, bool) {
	var stageErr *StageError
	if errors.As(err, &stageErr) {
		return stageErr.Kind, true
	}
	return 0, false
}

// fromAcquire maps an acquisition failure onto the matching kind. The step
// prefix is dropped so the client message carries only the cause.
func fromAcquire(err error, src media.Source) *StageError {
	var acqErr *media.AcquireError
	if !errors.As(err, &acqErr) {
		if src.Kind == media.SourceUpload {
			return &StageError{Kind: UploadError, Err: err}
		}
		return &StageError{Kind: DownloadError, Err: err}
	}

	kind := DownloadError
	switch acqErr.Step {
	case media.StepSave:
		kind = UploadError
	case media.StepDownload:
		kind = DownloadError
	case media.StepYouTube:
		kind = YouTubeDownloadError
	case media.StepExtract:
		kind = ExtractionError
	}
	return &StageError{Kind: kind, Err: acqErr.Err}
}
