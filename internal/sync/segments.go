package sync

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/sethvargo/go-retry"
	"golang.org/x/sync/errgroup"

	"github.com/Ruszero01/EcoPaste-Sync-sub000/internal/checksum"
	"github.com/Ruszero01/EcoPaste-Sync-sub000/internal/logger"
	"github.com/Ruszero01/EcoPaste-Sync-sub000/internal/transport"
	"github.com/Ruszero01/EcoPaste-Sync-sub000/models"
)

const (
	// DefaultSegmentLimit is the fixed chunk size for remote transfer.
	DefaultSegmentLimit int64 = 1 << 20 // 1 MiB

	// DefaultMaxPayload is the hard per-file ceiling. Files above it are
	// rejected outright, never queued or segmented.
	DefaultMaxPayload int64 = 10 << 20 // 10 MiB

	// segmentDir is the remote collection all segments live under.
	segmentDir = "files"
)

// SegmentConfig tunes the transfer layer. The backoff policy is explicit
// configuration so retries are testable without real timers.
type SegmentConfig struct {
	// SegmentLimit is the chunk size; payloads above 80% of it take the
	// individually-segmented path.
	SegmentLimit int64

	// MaxPayload is the hard per-file ceiling.
	MaxPayload int64

	// MaxAttempts bounds upload tries per segment.
	MaxAttempts uint64

	// BaseDelay is the exponential backoff base between attempts.
	BaseDelay time.Duration

	// Jitter randomizes the backoff to avoid synchronized retries. Must be
	// positive; a zero value takes the default.
	Jitter time.Duration

	// Concurrency bounds parallel chunk uploads for one file. Segments are
	// content-addressed, so upload order does not affect correctness.
	Concurrency int

	// DownloadDir is where reassembled files are materialized. Each file
	// lands under a checksum-keyed subdirectory to keep same-named files
	// from different items apart.
	DownloadDir string
}

func (c SegmentConfig) withDefaults() SegmentConfig {
	if c.SegmentLimit <= 0 {
		c.SegmentLimit = DefaultSegmentLimit
	}
	if c.MaxPayload <= 0 {
		c.MaxPayload = DefaultMaxPayload
	}
	if c.MaxAttempts == 0 {
		c.MaxAttempts = 3
	}
	if c.BaseDelay <= 0 {
		c.BaseDelay = 500 * time.Millisecond
	}
	if c.Jitter <= 0 {
		c.Jitter = 100 * time.Millisecond
	}
	if c.Concurrency <= 0 {
		c.Concurrency = 3
	}
	if c.DownloadDir == "" {
		c.DownloadDir = filepath.Join(os.TempDir(), "ecopaste-sync")
	}
	return c
}

// pendingFile is one small file waiting in the batch queue. Its segment info
// is assigned when the batch is flushed.
type pendingFile struct {
	fileName string
	data     []byte
	checksum string
	fileType models.ItemType
	info     *models.SegmentInfo
}

// SegmentManager moves binary payloads through the transport in bounded-size
// segments: large files are split into 1 MiB chunks, small files from the
// same item are packed into shared batch segments, and downloads are
// verified chunk by chunk before reassembly.
type SegmentManager struct {
	transport transport.FileTransport
	log       *logger.Logger
	cfg       SegmentConfig

	colOnce sync.Once
	colErr  error

	mu          sync.Mutex
	queue       []*pendingFile
	queuedBytes int64
	batchSeq    int
}

// NewSegmentManager constructs a transfer layer over the given transport.
func NewSegmentManager(tr transport.FileTransport, log *logger.Logger, cfg SegmentConfig) *SegmentManager {
	return &SegmentManager{
		transport: tr,
		log:       log,
		cfg:       cfg.withDefaults(),
	}
}

// UploadPayload transfers the binary content of item and returns a copy
// whose Value carries the resulting segment list. Non-binary items pass
// through untouched.
//
// All files of one item share at most one batch segment: the small-file
// queue is flushed before returning, so a partially uploaded item can never
// leave dangling batch members behind. A file above the hard ceiling fails
// the whole item with [ErrPayloadTooLarge].
func (m *SegmentManager) UploadPayload(ctx context.Context, item models.SyncItem) (models.SyncItem, error) {
	payload, err := models.ParsePayload(item)
	if err != nil {
		return item, err
	}
	if !payload.IsBinary() {
		return item, nil
	}
	if len(payload.Segments) > 0 {
		// Already uploaded by this or another device.
		return item, nil
	}

	paths := payload.FilePaths
	if payload.Kind == models.PayloadImage {
		paths = []string{payload.ImagePath}
	}

	var (
		pendings []*pendingFile
		segments []models.SegmentInfo
	)
	for _, path := range paths {
		resolved, pending, upErr := m.uploadFile(ctx, path, item.Type)
		if upErr != nil {
			return item, fmt.Errorf("upload %s: %w", filepath.Base(path), upErr)
		}
		if pending != nil {
			pendings = append(pendings, pending)
			continue
		}
		segments = append(segments, resolved...)
	}

	if err = m.flush(ctx); err != nil {
		return item, err
	}
	for _, p := range pendings {
		segments = append(segments, *p.info)
	}

	payload.Segments = segments
	value, err := payload.Encode()
	if err != nil {
		return item, err
	}
	item.Value = value
	return item, nil
}

// DownloadPayload materializes the binary content of item on local disk and
// returns a copy whose Value points at the local paths. Non-binary items and
// items without a segment list pass through untouched.
func (m *SegmentManager) DownloadPayload(ctx context.Context, item models.SyncItem) (models.SyncItem, error) {
	payload, err := models.ParsePayload(item)
	if err != nil {
		return item, err
	}
	if !payload.IsBinary() || len(payload.Segments) == 0 {
		return item, nil
	}

	var localPaths []string
	for _, group := range groupByFile(payload.Segments) {
		data, reErr := m.Reassemble(ctx, group)
		if reErr != nil {
			return item, reErr
		}

		dir := filepath.Join(m.cfg.DownloadDir, shortSum(data))
		if err = os.MkdirAll(dir, 0o755); err != nil {
			return item, fmt.Errorf("create download dir: %w", err)
		}
		dest := filepath.Join(dir, group[0].FileName)
		if err = os.WriteFile(dest, data, 0o644); err != nil {
			return item, fmt.Errorf("write downloaded file: %w", err)
		}
		localPaths = append(localPaths, dest)
	}

	if payload.Kind == models.PayloadImage {
		payload.ImagePath = localPaths[0]
	} else {
		payload.FilePaths = localPaths
	}
	value, err := payload.Encode()
	if err != nil {
		return item, err
	}
	item.Value = value
	return item, nil
}

// Reassemble downloads the given segments of a single file, verifies each
// against its recorded checksum and returns the concatenated original bytes.
//
// Segments are ordered by the numeric index embedded in their ids. Any
// checksum mismatch aborts with [ErrSegmentChecksumMismatch] and no partial
// result.
func (m *SegmentManager) Reassemble(ctx context.Context, segments []models.SegmentInfo) ([]byte, error) {
	ordered := make([]models.SegmentInfo, len(segments))
	copy(ordered, segments)
	sort.SliceStable(ordered, func(i, j int) bool {
		return chunkIndex(ordered[i].SegmentID) < chunkIndex(ordered[j].SegmentID)
	})

	var out []byte
	for _, seg := range ordered {
		data, err := m.transport.GetFile(ctx, segmentPath(seg.SegmentID))
		if err != nil {
			return nil, fmt.Errorf("download segment %s: %w", seg.SegmentID, err)
		}

		part := data
		if seg.Offset > 0 || seg.Size < int64(len(data)) {
			if seg.Offset+seg.Size > int64(len(data)) {
				return nil, fmt.Errorf("%w: %s shorter than recorded slice", ErrSegmentChecksumMismatch, seg.SegmentID)
			}
			part = data[seg.Offset : seg.Offset+seg.Size]
		}

		if checksum.Bytes(part) != seg.Checksum {
			return nil, fmt.Errorf("%w: %s", ErrSegmentChecksumMismatch, seg.SegmentID)
		}
		out = append(out, part...)
	}

	return out, nil
}

// uploadFile transfers one local file. Large files and images come back as
// resolved segments; small files come back as a pending queue entry whose
// info is assigned by the next flush.
func (m *SegmentManager) uploadFile(ctx context.Context, path string, fileType models.ItemType) ([]models.SegmentInfo, *pendingFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("read payload file: %w", err)
	}

	size := int64(len(data))
	if size > m.cfg.MaxPayload {
		return nil, nil, fmt.Errorf("%w: %d bytes", ErrPayloadTooLarge, size)
	}

	if fileType == models.TypeImage || size > m.largeThreshold() {
		infos, chErr := m.uploadChunks(ctx, filepath.Base(path), path, data, fileType)
		return infos, nil, chErr
	}

	pending, err := m.queueSmall(ctx, filepath.Base(path), data, fileType)
	return nil, pending, err
}

func (m *SegmentManager) flush(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.flushLocked(ctx)
}

func (m *SegmentManager) largeThreshold() int64 {
	return m.cfg.SegmentLimit * 8 / 10
}

// uploadChunks splits data into fixed segment-limit chunks and uploads them
// with bounded concurrency. Chunk ids derive from the whole-file checksum
// plus the chunk index, stable across retries and devices.
func (m *SegmentManager) uploadChunks(ctx context.Context, fileName, path string, data []byte, fileType models.ItemType) ([]models.SegmentInfo, error) {
	if err := m.ensureCollection(ctx); err != nil {
		return nil, err
	}

	fileSum := checksum.Bytes(data)
	limit := m.cfg.SegmentLimit

	var chunks [][]byte
	for off := int64(0); off < int64(len(data)); off += limit {
		end := off + limit
		if end > int64(len(data)) {
			end = int64(len(data))
		}
		chunks = append(chunks, data[off:end])
	}
	if len(chunks) == 0 {
		chunks = [][]byte{{}}
	}

	infos := make([]models.SegmentInfo, len(chunks))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(m.cfg.Concurrency)
	for i, chunk := range chunks {
		g.Go(func() error {
			segID := fmt.Sprintf("%s_%d", fileSum, i)
			finalID, err := m.uploadSegment(gctx, segID, chunk)
			if err != nil {
				return err
			}
			infos[i] = models.SegmentInfo{
				SegmentID:    finalID,
				FileName:     fileName,
				OriginalPath: path,
				Size:         int64(len(chunk)),
				Checksum:     checksum.Bytes(chunk),
				FileType:     fileType,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return infos, nil
}

// queueSmall appends the file to the batch queue, flushing first when the
// queued total would overflow the segment limit.
func (m *SegmentManager) queueSmall(ctx context.Context, fileName string, data []byte, fileType models.ItemType) (*pendingFile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.queuedBytes+int64(len(data)) > m.cfg.SegmentLimit {
		if err := m.flushLocked(ctx); err != nil {
			return nil, err
		}
	}

	p := &pendingFile{
		fileName: fileName,
		data:     data,
		checksum: checksum.Bytes(data),
		fileType: fileType,
	}
	m.queue = append(m.queue, p)
	m.queuedBytes += int64(len(data))
	return p, nil
}

func (m *SegmentManager) flushLocked(ctx context.Context) error {
	if len(m.queue) == 0 {
		return nil
	}
	if err := m.ensureCollection(ctx); err != nil {
		return err
	}

	var batch []byte
	for _, p := range m.queue {
		batch = append(batch, p.data...)
	}

	batchSum := checksum.Bytes(batch)
	segID := fmt.Sprintf("batch_%s_%d", batchSum[:16], m.batchSeq)
	m.batchSeq++

	finalID, err := m.uploadSegment(ctx, segID, batch)
	if err != nil {
		return err
	}

	var offset int64
	for _, p := range m.queue {
		p.info = &models.SegmentInfo{
			SegmentID: finalID,
			FileName:  p.fileName,
			Size:      int64(len(p.data)),
			Offset:    offset,
			Checksum:  p.checksum,
			FileType:  p.fileType,
		}
		offset += int64(len(p.data))
	}

	m.queue = nil
	m.queuedBytes = 0
	return nil
}

// uploadSegment writes one segment under its content-addressed name with a
// bounded retry policy. An existing remote object with the same name is
// assumed content-identical and skipped. On a conflict the existing object
// is probed: if it is downloadable the upload counts as an idempotent
// success, otherwise the candidate is renamed with a _retry_N suffix and
// retried. Returns the name the segment finally landed under.
func (m *SegmentManager) uploadSegment(ctx context.Context, segID string, data []byte) (string, error) {
	exists, err := m.transport.Exists(ctx, segmentPath(segID))
	if err == nil && exists {
		return segID, nil
	}

	finalID := segID
	attempt := 0
	backoff := retry.WithMaxRetries(m.cfg.MaxAttempts-1,
		retry.WithJitter(m.cfg.Jitter, retry.NewExponential(m.cfg.BaseDelay)))

	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		putErr := m.transport.PutFile(ctx, segmentPath(finalID), data)
		if putErr == nil {
			return nil
		}

		if errors.Is(putErr, transport.ErrConflict) {
			if _, getErr := m.transport.GetFile(ctx, segmentPath(finalID)); getErr == nil {
				// Content-addressed name already holds a readable object.
				return nil
			}
			finalID = fmt.Sprintf("%s_retry_%d", segID, attempt)
		}

		m.log.Warn().
			Str("segment_id", finalID).
			Int("attempt", attempt).
			Err(putErr).
			Msg("segment upload attempt failed")
		return retry.RetryableError(putErr)
	})
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrSegmentUploadFailed, segID, err)
	}

	return finalID, nil
}

func (m *SegmentManager) ensureCollection(ctx context.Context) error {
	m.colOnce.Do(func() {
		if err := m.transport.MkCol(ctx, segmentDir); err != nil && !errors.Is(err, transport.ErrConflict) {
			m.colErr = fmt.Errorf("create segment collection: %w", err)
		}
	})
	return m.colErr
}

func segmentPath(segID string) string {
	return segmentDir + "/" + segID + ".seg"
}

func shortSum(data []byte) string {
	sum := checksum.Bytes(data)
	if len(sum) > 12 {
		sum = sum[:12]
	}
	return sum
}

// groupByFile splits a flat segment list into per-file groups, keyed by the
// source file and preserving first-appearance order.
func groupByFile(segments []models.SegmentInfo) [][]models.SegmentInfo {
	var (
		order  []string
		groups = make(map[string][]models.SegmentInfo)
	)
	for _, seg := range segments {
		key := seg.OriginalPath
		if key == "" {
			key = seg.FileName
		}
		if _, ok := groups[key]; !ok {
			order = append(order, key)
		}
		groups[key] = append(groups[key], seg)
	}

	out := make([][]models.SegmentInfo, 0, len(order))
	for _, key := range order {
		out = append(out, groups[key])
	}
	return out
}

// chunkIndex extracts the numeric chunk index embedded in a segment id.
// Chunk ids look like "<hash>_3" or "batch_<hash>_2", possibly with a
// "_retry_N" tail; the first integer token after the hash wins.
func chunkIndex(segID string) int {
	tokens := strings.Split(segID, "_")
	start := 1
	if len(tokens) > 0 && tokens[0] == "batch" {
		start = 2
	}
	for i := start; i < len(tokens); i++ {
		if n, err := strconv.Atoi(tokens[i]); err == nil {
			return n
		}
	}
	return 0
}
