package sync

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/Ruszero01/EcoPaste-Sync-sub000/internal/logger"
	"github.com/Ruszero01/EcoPaste-Sync-sub000/internal/mock"
	"github.com/Ruszero01/EcoPaste-Sync-sub000/internal/transport"
	"github.com/Ruszero01/EcoPaste-Sync-sub000/models"
)

// fakeTransport is an in-memory FileTransport with injectable PUT failures,
// shared by the segment and cloud manager tests.
type fakeTransport struct {
	mu       sync.Mutex
	files    map[string][]byte
	putCalls map[string]int
	putErr   func(path string, attempt int) error
	getErr   error
}

func newFakeTransport() *fakeTransport {
	return &fakeTransport{
		files:    make(map[string][]byte),
		putCalls: make(map[string]int),
	}
}

func (f *fakeTransport) PutFile(_ context.Context, remotePath string, data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.putCalls[remotePath]++
	if f.putErr != nil {
		if err := f.putErr(remotePath, f.putCalls[remotePath]); err != nil {
			return err
		}
	}
	f.files[remotePath] = append([]byte(nil), data...)
	return nil
}

func (f *fakeTransport) GetFile(_ context.Context, remotePath string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	data, ok := f.files[remotePath]
	if !ok {
		return nil, fmt.Errorf("%s: %w", remotePath, transport.ErrNotFound)
	}
	return append([]byte(nil), data...), nil
}

func (f *fakeTransport) DeleteFile(_ context.Context, remotePath string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.files[remotePath]; !ok {
		return fmt.Errorf("%s: %w", remotePath, transport.ErrNotFound)
	}
	delete(f.files, remotePath)
	return nil
}

func (f *fakeTransport) MkCol(context.Context, string) error { return nil }

func (f *fakeTransport) Exists(_ context.Context, remotePath string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.files[remotePath]
	return ok, nil
}

func (f *fakeTransport) Options(context.Context) error { return nil }

func (f *fakeTransport) totalPuts() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.putCalls {
		n += c
	}
	return n
}

func newTestSegmentManager(t *testing.T, tr transport.FileTransport, cfg SegmentConfig) *SegmentManager {
	t.Helper()
	if cfg.BaseDelay == 0 {
		cfg.BaseDelay = time.Millisecond
	}
	if cfg.DownloadDir == "" {
		cfg.DownloadDir = t.TempDir()
	}
	return NewSegmentManager(tr, logger.Nop(), cfg)
}

func writeTempFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func filesItem(t *testing.T, paths ...string) models.SyncItem {
	t.Helper()
	value, err := models.Payload{Kind: models.PayloadFiles, FilePaths: paths}.Encode()
	require.NoError(t, err)
	return models.SyncItem{ID: "files-1", Type: models.TypeFiles, Group: models.GroupFiles, Value: value}
}

func imageItem(t *testing.T, path string) models.SyncItem {
	t.Helper()
	value, err := models.Payload{Kind: models.PayloadImage, ImagePath: path}.Encode()
	require.NoError(t, err)
	return models.SyncItem{ID: "img-1", Type: models.TypeImage, Group: models.GroupImage, Value: value}
}

func TestUploadPayload_SmallFilesShareBatchSegment(t *testing.T) {
	tr := newFakeTransport()
	m := newTestSegmentManager(t, tr, SegmentConfig{})

	a := writeTempFile(t, "a.txt", []byte("alpha content"))
	b := writeTempFile(t, "b.txt", []byte("bravo"))

	item, err := m.UploadPayload(context.Background(), filesItem(t, a, b))
	require.NoError(t, err)

	payload, err := models.ParsePayload(item)
	require.NoError(t, err)
	require.Len(t, payload.Segments, 2)

	assert.Equal(t, payload.Segments[0].SegmentID, payload.Segments[1].SegmentID)
	assert.True(t, strings.HasPrefix(payload.Segments[0].SegmentID, "batch_"))
	assert.Equal(t, int64(0), payload.Segments[0].Offset)
	assert.Equal(t, int64(len("alpha content")), payload.Segments[1].Offset)

	// One segment object plus nothing else.
	assert.Equal(t, 1, tr.totalPuts())
}

func TestUploadDownloadRoundTrip_Files(t *testing.T) {
	tr := newFakeTransport()
	m := newTestSegmentManager(t, tr, SegmentConfig{})

	contentA := []byte("first file body")
	contentB := bytes.Repeat([]byte("x"), 4096)
	a := writeTempFile(t, "a.txt", contentA)
	b := writeTempFile(t, "b.bin", contentB)

	uploaded, err := m.UploadPayload(context.Background(), filesItem(t, a, b))
	require.NoError(t, err)

	downloaded, err := m.DownloadPayload(context.Background(), uploaded)
	require.NoError(t, err)

	payload, err := models.ParsePayload(downloaded)
	require.NoError(t, err)
	require.Len(t, payload.FilePaths, 2)

	gotA, err := os.ReadFile(payload.FilePaths[0])
	require.NoError(t, err)
	gotB, err := os.ReadFile(payload.FilePaths[1])
	require.NoError(t, err)
	assert.Equal(t, contentA, gotA)
	assert.Equal(t, contentB, gotB)
}

func TestUploadPayload_LargeFileIsChunked(t *testing.T) {
	tr := newFakeTransport()
	m := newTestSegmentManager(t, tr, SegmentConfig{SegmentLimit: 1024})

	content := bytes.Repeat([]byte("abcdefgh"), 320) // 2560 bytes, 3 chunks
	path := writeTempFile(t, "big.bin", content)

	uploaded, err := m.UploadPayload(context.Background(), filesItem(t, path))
	require.NoError(t, err)

	payload, err := models.ParsePayload(uploaded)
	require.NoError(t, err)
	require.Len(t, payload.Segments, 3)
	for _, seg := range payload.Segments {
		assert.LessOrEqual(t, seg.Size, int64(1024))
		assert.Equal(t, "big.bin", seg.FileName)
	}

	data, err := m.Reassemble(context.Background(), payload.Segments)
	require.NoError(t, err)
	assert.Equal(t, content, data)
}

func TestUploadPayload_ImageAlwaysChunked(t *testing.T) {
	tr := newFakeTransport()
	m := newTestSegmentManager(t, tr, SegmentConfig{})

	path := writeTempFile(t, "shot.png", []byte("tiny png bytes"))

	uploaded, err := m.UploadPayload(context.Background(), imageItem(t, path))
	require.NoError(t, err)

	payload, err := models.ParsePayload(uploaded)
	require.NoError(t, err)
	require.Len(t, payload.Segments, 1)
	assert.False(t, strings.HasPrefix(payload.Segments[0].SegmentID, "batch_"))

	downloaded, err := m.DownloadPayload(context.Background(), uploaded)
	require.NoError(t, err)
	dl, err := models.ParsePayload(downloaded)
	require.NoError(t, err)
	got, err := os.ReadFile(dl.ImagePath)
	require.NoError(t, err)
	assert.Equal(t, []byte("tiny png bytes"), got)
}

func TestUploadPayload_TooLarge(t *testing.T) {
	tr := newFakeTransport()
	m := newTestSegmentManager(t, tr, SegmentConfig{MaxPayload: 100})

	path := writeTempFile(t, "huge.bin", bytes.Repeat([]byte("z"), 200))

	_, err := m.UploadPayload(context.Background(), filesItem(t, path))
	require.ErrorIs(t, err, ErrPayloadTooLarge)
	assert.Equal(t, 0, tr.totalPuts())
}

func TestUploadPayload_SkipsAlreadyUploaded(t *testing.T) {
	tr := newFakeTransport()
	m := newTestSegmentManager(t, tr, SegmentConfig{})

	value, err := models.Payload{
		Kind:      models.PayloadFiles,
		FilePaths: []string{"/gone/on/this/device.txt"},
		Segments:  []models.SegmentInfo{{SegmentID: "deadbeef_0", Size: 10, Checksum: "c"}},
	}.Encode()
	require.NoError(t, err)

	item := models.SyncItem{ID: "f", Type: models.TypeFiles, Value: value}
	out, err := m.UploadPayload(context.Background(), item)
	require.NoError(t, err)
	assert.Equal(t, item.Value, out.Value)
	assert.Equal(t, 0, tr.totalPuts())
}

func TestUploadSegment_SkipsExistingRemote(t *testing.T) {
	tr := newFakeTransport()
	m := newTestSegmentManager(t, tr, SegmentConfig{SegmentLimit: 64})

	content := bytes.Repeat([]byte("q"), 100)
	path := writeTempFile(t, "dup.bin", content)

	_, err := m.UploadPayload(context.Background(), filesItem(t, path))
	require.NoError(t, err)
	puts := tr.totalPuts()

	// A second manager (another pass) sees the same content-addressed names
	// and uploads nothing.
	m2 := newTestSegmentManager(t, tr, SegmentConfig{SegmentLimit: 64})
	_, err = m2.UploadPayload(context.Background(), filesItem(t, path))
	require.NoError(t, err)
	assert.Equal(t, puts, tr.totalPuts())
}

func TestUploadSegment_ConflictWithReadableObjectIsSuccess(t *testing.T) {
	tr := newFakeTransport()
	content := bytes.Repeat([]byte("w"), 100)
	path := writeTempFile(t, "race.bin", content)

	// Every PUT conflicts, but the object appears remotely as if another
	// device won the race.
	tr.putErr = func(remotePath string, _ int) error {
		if strings.HasSuffix(remotePath, ".seg") {
			tr.files[remotePath] = content
			return transport.ErrConflict
		}
		return nil
	}

	m := newTestSegmentManager(t, tr, SegmentConfig{SegmentLimit: 64})
	uploaded, err := m.UploadPayload(context.Background(), filesItem(t, path))
	require.NoError(t, err)

	payload, err := models.ParsePayload(uploaded)
	require.NoError(t, err)
	require.NotEmpty(t, payload.Segments)
	assert.NotContains(t, payload.Segments[0].SegmentID, "_retry_")
}

func TestUploadSegment_RetryExhausted(t *testing.T) {
	tr := newFakeTransport()
	tr.putErr = func(string, int) error { return fmt.Errorf("remote hiccup") }

	// 60 bytes is above the 80% threshold of a 64-byte limit but still a
	// single chunk, so the attempt count is unambiguous.
	m := newTestSegmentManager(t, tr, SegmentConfig{SegmentLimit: 64, MaxAttempts: 3})
	path := writeTempFile(t, "flaky.bin", bytes.Repeat([]byte("e"), 60))

	_, err := m.UploadPayload(context.Background(), filesItem(t, path))
	require.ErrorIs(t, err, ErrSegmentUploadFailed)
	assert.Equal(t, 3, tr.totalPuts())
}

func TestUploadPayload_CollectionCreateFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	tr := mock.NewMockFileTransport(ctrl)
	tr.EXPECT().MkCol(gomock.Any(), segmentDir).Return(fmt.Errorf("http 503: unavailable"))

	m := newTestSegmentManager(t, tr, SegmentConfig{SegmentLimit: 64})
	path := writeTempFile(t, "x.bin", bytes.Repeat([]byte("a"), 60))

	_, err := m.UploadPayload(context.Background(), filesItem(t, path))
	require.ErrorContains(t, err, "create segment collection")
}

func TestReassemble_ChecksumMismatch(t *testing.T) {
	tr := newFakeTransport()
	m := newTestSegmentManager(t, tr, SegmentConfig{SegmentLimit: 64})

	content := bytes.Repeat([]byte("v"), 100)
	path := writeTempFile(t, "c.bin", content)

	uploaded, err := m.UploadPayload(context.Background(), filesItem(t, path))
	require.NoError(t, err)
	payload, err := models.ParsePayload(uploaded)
	require.NoError(t, err)

	// Corrupt the first stored segment.
	tr.mu.Lock()
	for name, data := range tr.files {
		if strings.HasSuffix(name, ".seg") {
			data[0] ^= 0xff
			tr.files[name] = data
			break
		}
	}
	tr.mu.Unlock()

	_, err = m.Reassemble(context.Background(), payload.Segments)
	require.ErrorIs(t, err, ErrSegmentChecksumMismatch)
}

func TestReassemble_OrdersByChunkIndex(t *testing.T) {
	tr := newFakeTransport()
	m := newTestSegmentManager(t, tr, SegmentConfig{SegmentLimit: 64})

	content := bytes.Repeat([]byte("0123456789"), 20) // 200 bytes, 4 chunks
	path := writeTempFile(t, "ord.bin", content)

	uploaded, err := m.UploadPayload(context.Background(), filesItem(t, path))
	require.NoError(t, err)
	payload, err := models.ParsePayload(uploaded)
	require.NoError(t, err)
	require.Len(t, payload.Segments, 4)

	// Shuffle the recorded order; reassembly must not care.
	segs := []models.SegmentInfo{payload.Segments[2], payload.Segments[0], payload.Segments[3], payload.Segments[1]}
	data, err := m.Reassemble(context.Background(), segs)
	require.NoError(t, err)
	assert.Equal(t, content, data)
}

func TestChunkIndex(t *testing.T) {
	tests := []struct {
		segID string
		want  int
	}{
		{"abc123_0", 0},
		{"abc123_7", 7},
		{"abc123_7_retry_2", 7},
		{"batch_deadbeefdeadbeef_3", 3},
		{"batch_deadbeefdeadbeef_3_retry_1", 3},
		{"nounderscoreindex", 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, chunkIndex(tt.segID), tt.segID)
	}
}
