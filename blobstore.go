package paradox

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/dgraph-io/ristretto/v2"
)

// blobPointer is the 10-byte trailer embedded in a Memo/Binary/Graphic
// field, plus the leading "leader" bytes that preceded it in the field.
type blobPointer struct {
	offsetRaw uint32
	lengthRaw uint32
	modNumber uint16
	leader    []byte
}

func (p blobPointer) index() byte {
	return byte(p.offsetRaw & 0xFF)
}

func (p blobPointer) blockOffset() int {
	return int(p.offsetRaw &^ 0xFF)
}

func parseBlobPointer(field []byte) blobPointer {
	if len(field) < 10 {
		return blobPointer{leader: append([]byte(nil), field...)}
	}
	n := len(field)
	ptr := field[n-10:]
	leader := field[:n-10]
	return blobPointer{
		offsetRaw: binary.LittleEndian.Uint32(ptr[0:4]),
		lengthRaw: binary.LittleEndian.Uint32(ptr[4:8]),
		modNumber: binary.LittleEndian.Uint16(ptr[8:10]),
		leader:    append([]byte(nil), leader...),
	}
}

// BlobStore resolves Memo/Binary/Graphic field pointers against a table's
// companion .MB file. It owns a small cache of loaded .MB bytes keyed by
// path; the cache is not required to be thread-safe, matching the
// single-consumer-per-table contract.
type BlobStore struct {
	candidates []string
	cache      *ristretto.Cache[string, []byte]
}

var disambiguatorSuffix = regexp.MustCompile(`\s\(\d+\)$`)

const copyOfPrefix = "copy of "

// cleanCandidateStem strips a trailing " (N)" disambiguator and a leading
// "Copy of " prefix from a candidate base name.
func cleanCandidateStem(stem string) string {
	stem = disambiguatorSuffix.ReplaceAllString(stem, "")
	if len(stem) >= len(copyOfPrefix) && strings.EqualFold(stem[:len(copyOfPrefix)], copyOfPrefix) {
		stem = stem[len(copyOfPrefix):]
	}
	return stem
}

func stemOf(name string) string {
	base := filepath.Base(name)
	ext := filepath.Ext(base)
	return strings.TrimSuffix(base, ext)
}

func dedupeCaseInsensitive(names []string) []string {
	seen := make(map[string]bool)
	out := make([]string, 0, len(names))
	for _, n := range names {
		if n == "" {
			continue
		}
		key := strings.ToUpper(n)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, n)
	}
	return out
}

// NewBlobStore discovers the .MB file(s) in tablePath's directory that
// plausibly belong to a table named tablePath (by file stem) or
// declaredTableName (by the name recorded inside the header), preferring
// exact (case-insensitive) stem matches and falling back to every .MB in
// the directory when none match.
func NewBlobStore(tablePath string, declaredTableName string) (*BlobStore, error) {
	dir := filepath.Dir(tablePath)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, &IOError{Path: dir, Cause: err}
	}

	rawStems := []string{stemOf(tablePath), stemOf(declaredTableName)}
	candidateNames := []string{}
	for _, s := range rawStems {
		candidateNames = append(candidateNames, s, cleanCandidateStem(s))
	}
	candidateNames = dedupeCaseInsensitive(candidateNames)

	var matched []string
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".mb") {
			continue
		}
		nameStem := stemOf(e.Name())
		for _, c := range candidateNames {
			if strings.EqualFold(nameStem, c) {
				matched = append(matched, filepath.Join(dir, e.Name()))
				break
			}
		}
	}
	if len(matched) == 0 {
		for _, e := range entries {
			if !e.IsDir() && strings.EqualFold(filepath.Ext(e.Name()), ".mb") {
				matched = append(matched, filepath.Join(dir, e.Name()))
			}
		}
	}

	cache, err := ristretto.NewCache(&ristretto.Config[string, []byte]{
		NumCounters: 1e4,
		MaxCost:     1 << 24,
		BufferItems: 64,
	})
	if err != nil {
		return nil, err
	}

	return &BlobStore{candidates: matched, cache: cache}, nil
}

// Close releases the store's cache. Call it when the owning table is
// discarded.
func (bs *BlobStore) Close() {
	if bs == nil || bs.cache == nil {
		return
	}
	bs.cache.Close()
}

func (bs *BlobStore) loadCached(path string) ([]byte, error) {
	if bs.cache != nil {
		if v, ok := bs.cache.Get(path); ok {
			return v, nil
		}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if bs.cache != nil {
		bs.cache.Set(path, data, int64(len(data)))
		bs.cache.Wait()
	}
	return data, nil
}

// Resolve returns the payload bytes for a Memo/Binary/Graphic field's raw
// in-row bytes. resolved is false when every .MB candidate failed, in
// which case callers should fall back to leader (when non-empty) or null.
func (bs *BlobStore) Resolve(raw []byte) (payload []byte, leader []byte, resolved bool) {
	ptr := parseBlobPointer(raw)
	if ptr.offsetRaw == 0 {
		return ptr.leader, ptr.leader, true
	}
	if bs == nil {
		return nil, ptr.leader, false
	}
	for _, candidate := range bs.candidates {
		data, err := bs.loadCached(candidate)
		if err != nil {
			continue
		}
		if payload, ok := resolveFromMB(data, ptr); ok {
			return payload, ptr.leader, true
		}
	}
	return nil, ptr.leader, false
}

// resolveFromMB reads the block at ptr.blockOffset() in an .MB file's
// bytes and extracts the referenced payload per the type-0x02 (single
// blob) or type-0x03 (sub-blob directory) layout. Other block types are
// resolution failures.
func resolveFromMB(mb []byte, ptr blobPointer) ([]byte, bool) {
	offset := ptr.blockOffset()
	if offset < 0 || offset >= len(mb) {
		return nil, false
	}
	blockType := mb[offset]
	switch blockType {
	case 0x02:
		return resolveSingleBlob(mb, offset, ptr)
	case 0x03:
		return resolveSubBlob(mb, offset, ptr)
	default:
		return nil, false
	}
}

func resolveSingleBlob(mb []byte, offset int, ptr blobPointer) ([]byte, bool) {
	if offset+9 > len(mb) {
		return nil, false
	}
	chunkCount := int(binary.LittleEndian.Uint16(mb[offset+1 : offset+3]))
	blockLength := chunkCount * 0x1000
	blobLength := int(binary.LittleEndian.Uint32(mb[offset+3 : offset+7]))

	length := blobLength
	if length == 0 {
		length = int(ptr.lengthRaw)
	}
	maxLen := blockLength - 9
	if maxLen < 0 {
		maxLen = 0
	}
	if length > maxLen {
		length = maxLen
	}
	payloadStart := offset + 9
	if payloadStart+length > len(mb) {
		length = len(mb) - payloadStart
	}
	if length < 0 {
		return nil, false
	}
	return mb[payloadStart : payloadStart+length], true
}

func resolveSubBlob(mb []byte, offset int, ptr blobPointer) ([]byte, bool) {
	entryOffset := offset + 12 + int(ptr.index())*5
	if entryOffset+5 > len(mb) {
		return nil, false
	}
	entry := mb[entryOffset : entryOffset+5]
	if isAllZero(entry) {
		return nil, false
	}
	offsetChunks := int(entry[0])
	chunkCount := int(entry[1])
	remainder := int(entry[4])

	dataOffsetWithinBlock := offsetChunks * 16
	var entryLength int
	if chunkCount > 0 {
		entryLength = (chunkCount - 1) * 16
		if remainder == 0 {
			entryLength += 16
		} else {
			entryLength += remainder
		}
	} else {
		entryLength = remainder
	}

	effectiveLen := entryLength
	if ptr.lengthRaw != 0 && int(ptr.lengthRaw) < effectiveLen {
		effectiveLen = int(ptr.lengthRaw)
	}

	payloadStart := offset + dataOffsetWithinBlock
	if payloadStart < 0 || payloadStart > len(mb) {
		return nil, false
	}
	if payloadStart+effectiveLen > len(mb) {
		effectiveLen = len(mb) - payloadStart
	}
	if effectiveLen < 0 {
		return nil, false
	}
	return mb[payloadStart : payloadStart+effectiveLen], true
}

// resolveMemoField decodes a Memo/FormattedMemo field: blob-resolved
// bytes have trailing NULs stripped and are decoded through the active
// encoding; failures fall back to the leader, then null.
func resolveMemoField(raw []byte, blobs *BlobStore, encoding Encoding) Value {
	payload, leader, ok := blobs.Resolve(raw)
	if ok {
		trimmed := bytes.TrimRight(payload, "\x00")
		return TextValue(encoding.decodeText(trimmed))
	}
	if len(leader) > 0 {
		return TextValue(encoding.decodeText(leader))
	}
	return NullValue()
}

// resolveBinaryField decodes a Binary/OLE field: bytes verbatim.
func resolveBinaryField(raw []byte, blobs *BlobStore) Value {
	payload, leader, ok := blobs.Resolve(raw)
	if ok {
		return BytesValue(append([]byte(nil), payload...))
	}
	if len(leader) > 0 {
		return BytesValue(append([]byte(nil), leader...))
	}
	return NullValue()
}

// resolveGraphicField decodes a Graphic field: bytes verbatim, tagged as
// an image.
func resolveGraphicField(raw []byte, blobs *BlobStore) Value {
	payload, leader, ok := blobs.Resolve(raw)
	if ok {
		return ImageValue(append([]byte(nil), payload...))
	}
	if len(leader) > 0 {
		return ImageValue(append([]byte(nil), leader...))
	}
	return NullValue()
}
