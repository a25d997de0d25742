package processor

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"go.uber.org/zap"

	"github.com/eddienguyen/la-wed-be/internal/media/biz"
	"github.com/eddienguyen/la-wed-be/internal/media/storage"
	"github.com/eddienguyen/la-wed-be/internal/media/types"
	"github.com/eddienguyen/la-wed-be/internal/pkg/logger"
	"github.com/eddienguyen/la-wed-be/internal/pkg/workerpool"
)

// VideoConfig controls validation limits, external tool paths and the
// thumbnail preset. Zero values fall back to the documented defaults.
type VideoConfig struct {
	MaxSize       int64
	FFmpegPath    string
	FFprobePath   string
	ThumbnailAt   time.Duration
	ThumbWidth    int
	ThumbHeight   int
	ProbeTimeout  time.Duration
	EncodeTimeout time.Duration
}

func (c VideoConfig) withDefaults() VideoConfig {
	if c.MaxSize <= 0 {
		c.MaxSize = DefaultMaxVideoSize
	}
	if c.FFmpegPath == "" {
		c.FFmpegPath = "ffmpeg"
	}
	if c.FFprobePath == "" {
		c.FFprobePath = "ffprobe"
	}
	if c.ThumbnailAt <= 0 {
		c.ThumbnailAt = time.Second
	}
	if c.ThumbWidth <= 0 {
		c.ThumbWidth = 400
	}
	if c.ThumbHeight <= 0 {
		c.ThumbHeight = 300
	}
	if c.ProbeTimeout <= 0 {
		c.ProbeTimeout = 30 * time.Second
	}
	if c.EncodeTimeout <= 0 {
		c.EncodeTimeout = 60 * time.Second
	}
	return c
}

// Video validates video uploads, probes technical metadata and extracts a
// thumbnail frame through ffmpeg. Implements biz.VideoProcessor.
type Video struct {
	store  Store
	pool   *workerpool.Pool
	cfg    VideoConfig
	logger *logger.Logger
}

var _ biz.VideoProcessor = (*Video)(nil)

// NewVideo creates the video processor.
func NewVideo(store Store, pool *workerpool.Pool, cfg VideoConfig, log *logger.Logger) *Video {
	if log == nil {
		log = logger.L()
	}
	return &Video{
		store:  store,
		pool:   pool,
		cfg:    cfg.withDefaults(),
		logger: log,
	}
}

// Upload runs the full video pipeline: validate, probe metadata, extract a
// thumbnail frame, then store the original and the thumbnail in parallel.
// Scratch files are removed on every exit path.
func (p *Video) Upload(ctx context.Context, file *types.UploadedFile) (*biz.UploadResult, error) {
	if err := validateUpload(file, allowedVideoTypes, p.cfg.MaxSize); err != nil {
		return nil, err
	}

	scratch, err := p.writeScratch(file)
	if err != nil {
		return nil, &biz.ProcessingError{Stage: "scratch", Err: err}
	}
	defer p.removeScratch(scratch)

	info, err := p.probe(ctx, scratch)
	if err != nil {
		return nil, err
	}

	thumbData, err := p.extractThumbnail(ctx, scratch)
	if err != nil {
		return nil, err
	}

	originalKey := p.store.GenerateKey(types.MediaTypeVideo, file.Filename)
	thumbKey := storage.VariantKey(originalKey, types.VariantThumbnail)

	type uploadOutcome struct {
		variant types.Variant
		key     string
		url     string
	}

	upload := func(variant types.Variant, key string, data []byte, contentType string) <-chan workerpool.TaskResult {
		return p.pool.SubmitWithResult(func() (interface{}, error) {
			url, err := p.store.Upload(ctx, data, key, contentType)
			if err != nil {
				return nil, err
			}
			return uploadOutcome{variant: variant, key: key, url: url}, nil
		})
	}

	channels := []<-chan workerpool.TaskResult{
		upload(types.VariantOriginal, originalKey, file.Data, file.ContentType),
		upload(types.VariantThumbnail, thumbKey, thumbData, "image/jpeg"),
	}

	keys := make(map[types.Variant]string, 2)
	urls := make(map[types.Variant]string, 2)

	var firstErr error
	for _, ch := range channels {
		result := <-ch
		if result.Error != nil {
			if firstErr == nil {
				firstErr = result.Error
			}
			continue
		}
		outcome := result.Data.(uploadOutcome)
		keys[outcome.variant] = outcome.key
		urls[outcome.variant] = outcome.url
	}

	if firstErr != nil {
		p.cleanup(ctx, keys)
		return nil, firstErr
	}

	metadata := map[string]interface{}{
		"duration": info.Duration,
		"width":    info.Width,
		"height":   info.Height,
		"codec":    info.Codec,
		"bit_rate": info.BitRate,
		"fps":      info.FPS,
		"size":     file.Size,
		"format":   strings.TrimPrefix(file.ContentType, "video/"),
	}

	p.logger.Debug("video processed",
		zap.String("key", originalKey),
		zap.Float64("duration", info.Duration),
		zap.Int64("width", info.Width),
		zap.Int64("height", info.Height))

	return &biz.UploadResult{
		MediaType:   types.MediaTypeVideo,
		OriginalURL: urls[types.VariantOriginal],
		Keys:        keys,
		URLs:        urls,
		Metadata:    metadata,
	}, nil
}

// writeScratch spills the upload to a uniquely named temporary file so the
// external tools can seek in it.
func (p *Video) writeScratch(file *types.UploadedFile) (string, error) {
	ext := path.Ext(file.Filename)
	if ext == "" {
		ext = ".mp4"
	}

	f, err := os.CreateTemp("", "media-video-*"+ext)
	if err != nil {
		return "", err
	}
	name := f.Name()

	if _, err := f.Write(file.Data); err != nil {
		f.Close()
		p.removeScratch(name)
		return "", err
	}
	if err := f.Close(); err != nil {
		p.removeScratch(name)
		return "", err
	}

	return name, nil
}

// removeScratch deletes a scratch file. Cleanup failures are logged only,
// never escalated over the primary error.
func (p *Video) removeScratch(name string) {
	if err := os.Remove(name); err != nil && !os.IsNotExist(err) {
		p.logger.Warn("failed to remove scratch file",
			zap.String("path", name),
			zap.Error(err))
	}
}

// probe runs ffprobe against the scratch file and parses its JSON output.
func (p *Video) probe(ctx context.Context, scratchPath string) (*probeInfo, error) {
	probeCtx, cancel := context.WithTimeout(ctx, p.cfg.ProbeTimeout)
	defer cancel()

	cmd := exec.CommandContext(probeCtx, p.cfg.FFprobePath,
		"-v", "quiet",
		"-print_format", "json",
		"-show_format",
		"-show_streams",
		scratchPath,
	)

	out, err := cmd.Output()
	if err != nil {
		return nil, &biz.ProcessingError{Stage: "probe", Err: fmt.Errorf("ffprobe: %w", err)}
	}

	info, err := parseProbeOutput(out)
	if err != nil {
		return nil, &biz.ProcessingError{Stage: "probe", Err: err}
	}
	return info, nil
}

// extractThumbnail grabs one frame at the configured timestamp and encodes
// it to the fixed thumbnail size as JPEG.
func (p *Video) extractThumbnail(ctx context.Context, scratchPath string) ([]byte, error) {
	frameFile, err := os.CreateTemp("", "media-thumb-*.jpg")
	if err != nil {
		return nil, &biz.ProcessingError{Stage: "thumbnail", Err: err}
	}
	framePath := frameFile.Name()
	frameFile.Close()
	defer p.removeScratch(framePath)

	encodeCtx, cancel := context.WithTimeout(ctx, p.cfg.EncodeTimeout)
	defer cancel()

	at := fmt.Sprintf("%.3f", p.cfg.ThumbnailAt.Seconds())
	cmd := exec.CommandContext(encodeCtx, p.cfg.FFmpegPath,
		"-y",
		"-ss", at,
		"-i", scratchPath,
		"-vframes", "1",
		"-q:v", "2",
		framePath,
	)

	if out, err := cmd.CombinedOutput(); err != nil {
		return nil, &biz.ProcessingError{
			Stage: "thumbnail",
			Err:   fmt.Errorf("ffmpeg: %w: %s", err, bytes.TrimSpace(out)),
		}
	}

	frameData, err := os.ReadFile(framePath)
	if err != nil {
		return nil, &biz.ProcessingError{Stage: "thumbnail", Err: err}
	}

	img, err := imaging.Decode(bytes.NewReader(frameData))
	if err != nil {
		return nil, &biz.ProcessingError{Stage: "thumbnail", Err: err}
	}

	thumb := imaging.Fill(img, p.cfg.ThumbWidth, p.cfg.ThumbHeight, imaging.Center, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, thumb, imaging.JPEG, imaging.JPEGQuality(variantJPEGQuality)); err != nil {
		return nil, &biz.ProcessingError{Stage: "thumbnail", Err: err}
	}

	return buf.Bytes(), nil
}

func (p *Video) cleanup(ctx context.Context, keys map[types.Variant]string) {
	if len(keys) == 0 {
		return
	}
	list := make([]string, 0, len(keys))
	for _, k := range keys {
		list = append(list, k)
	}
	res := p.store.BatchDelete(ctx, list)
	if len(res.Failed) > 0 {
		p.logger.Error("failed to remove objects after aborted video upload",
			zap.Strings("keys", res.Failed))
	}
}
