// Package mirror uploads written save files to an S3-compatible
// bucket in the background. Uploads never block the simulation; a
// saturated queue drops the oldest request for the newest.
package mirror

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

const (
	sigV4Algorithm = "AWS4-HMAC-SHA256"
	sigV4Region    = "auto"
	sigV4Service   = "s3"
)

// Bucket is a minimal S3-compatible PUT client (works against R2 and
// MinIO as well). Only object upload is needed here.
type Bucket struct {
	endpoint string
	bucket   string
	keyID    string
	secret   string
	http     *http.Client
}

func NewBucket(endpoint, bucket, keyID, secret string) (*Bucket, error) {
	endpoint = strings.TrimSpace(endpoint)
	bucket = strings.TrimSpace(bucket)
	if endpoint == "" || bucket == "" || strings.TrimSpace(keyID) == "" || strings.TrimSpace(secret) == "" {
		return nil, fmt.Errorf("endpoint, bucket and credentials are required")
	}
	if !strings.Contains(endpoint, "://") {
		endpoint = "https://" + endpoint
	}
	u, err := url.Parse(endpoint)
	if err != nil || u.Host == "" {
		return nil, fmt.Errorf("invalid endpoint %q", endpoint)
	}
	return &Bucket{
		endpoint: strings.TrimRight(u.String(), "/"),
		bucket:   bucket,
		keyID:    strings.TrimSpace(keyID),
		secret:   strings.TrimSpace(secret),
		http:     &http.Client{Timeout: 2 * time.Minute},
	}, nil
}

// Put uploads one local file under the given object key.
func (b *Bucket) Put(ctx context.Context, key, localPath string) error {
	key = cleanKey(key)
	if key == "" {
		return fmt.Errorf("empty object key")
	}
	f, err := os.Open(localPath)
	if err != nil {
		return err
	}
	defer f.Close()
	st, err := f.Stat()
	if err != nil {
		return err
	}

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return err
	}
	payloadHash := hex.EncodeToString(h.Sum(nil))
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return err
	}

	now := time.Now().UTC()
	amzDate := now.Format("20060102T150405Z")
	dateStamp := now.Format("20060102")

	canonicalURI := "/" + b.bucket + "/" + escapeKey(key)
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, b.endpoint+canonicalURI, f)
	if err != nil {
		return err
	}
	host := req.URL.Host
	req.Header.Set("Host", host)
	req.Header.Set("x-amz-content-sha256", payloadHash)
	req.Header.Set("x-amz-date", amzDate)
	req.Header.Set("Content-Type", "application/zstd")
	req.ContentLength = st.Size()

	const signedHeaders = "host;x-amz-content-sha256;x-amz-date"
	canonicalRequest := strings.Join([]string{
		http.MethodPut,
		canonicalURI,
		"",
		"host:" + host + "\nx-amz-content-sha256:" + payloadHash + "\nx-amz-date:" + amzDate + "\n",
		signedHeaders,
		payloadHash,
	}, "\n")

	scope := dateStamp + "/" + sigV4Region + "/" + sigV4Service + "/aws4_request"
	crSum := sha256.Sum256([]byte(canonicalRequest))
	stringToSign := strings.Join([]string{
		sigV4Algorithm,
		amzDate,
		scope,
		hex.EncodeToString(crSum[:]),
	}, "\n")

	signature := hex.EncodeToString(hmacSHA256(signingKey(b.secret, dateStamp), []byte(stringToSign)))
	req.Header.Set("Authorization", fmt.Sprintf("%s Credential=%s/%s, SignedHeaders=%s, Signature=%s",
		sigV4Algorithm, b.keyID, scope, signedHeaders, signature))

	resp, err := b.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 8*1024))
	return fmt.Errorf("put %s: status=%d body=%s", key, resp.StatusCode, strings.TrimSpace(string(body)))
}

// Stats are point-in-time queue counters for logging.
type Stats struct {
	QueueDepth    int
	Uploaded      uint64
	Failed        uint64
	Dropped       uint64
	LastErrorUnix int64
}

// Mirror runs upload workers over a bounded queue. Object keys are the
// file path relative to dataDir, under an optional prefix.
type Mirror struct {
	bucket  *Bucket
	dataDir string
	prefix  string
	log     *log.Logger

	jobs chan string
	wg   sync.WaitGroup

	uploaded  atomic.Uint64
	failed    atomic.Uint64
	dropped   atomic.Uint64
	lastError atomic.Int64
}

func New(bucket *Bucket, dataDir, prefix string, workers int, logger *log.Logger) *Mirror {
	if workers <= 0 {
		workers = 1
	}
	m := &Mirror{
		bucket:  bucket,
		dataDir: dataDir,
		prefix:  strings.Trim(filepath.ToSlash(prefix), "/"),
		log:     logger,
		jobs:    make(chan string, 256),
	}
	for i := 0; i < workers; i++ {
		m.wg.Add(1)
		go func() {
			defer m.wg.Done()
			for p := range m.jobs {
				m.upload(p)
			}
		}()
	}
	return m
}

// Enqueue schedules an upload. Never blocks the caller.
func (m *Mirror) Enqueue(localPath string) {
	if m == nil {
		return
	}
	select {
	case m.jobs <- localPath:
	default:
		m.dropped.Add(1)
		m.log.Printf("mirror: queue full, dropped %s", localPath)
	}
}

// Close drains the queue and stops the workers.
func (m *Mirror) Close() {
	if m == nil {
		return
	}
	close(m.jobs)
	m.wg.Wait()
}

func (m *Mirror) Stats() Stats {
	if m == nil {
		return Stats{}
	}
	return Stats{
		QueueDepth:    len(m.jobs),
		Uploaded:      m.uploaded.Load(),
		Failed:        m.failed.Load(),
		Dropped:       m.dropped.Load(),
		LastErrorUnix: m.lastError.Load(),
	}
}

func (m *Mirror) upload(localPath string) {
	key, err := m.objectKey(localPath)
	if err != nil {
		m.log.Printf("mirror: skip %s: %v", localPath, err)
		return
	}

	var lastErr error
	for attempt := 1; attempt <= 4; attempt++ {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		lastErr = m.bucket.Put(ctx, key, localPath)
		cancel()
		if lastErr == nil {
			m.uploaded.Add(1)
			return
		}
		time.Sleep(time.Duration(attempt*attempt) * 200 * time.Millisecond)
	}
	m.failed.Add(1)
	m.lastError.Store(time.Now().UTC().Unix())
	m.log.Printf("mirror: upload failed key=%s: %v", key, lastErr)
}

func (m *Mirror) objectKey(localPath string) (string, error) {
	absBase, err := filepath.Abs(m.dataDir)
	if err != nil {
		return "", err
	}
	absLocal, err := filepath.Abs(localPath)
	if err != nil {
		return "", err
	}
	rel, err := filepath.Rel(absBase, absLocal)
	if err != nil {
		return "", err
	}
	rel = filepath.ToSlash(rel)
	if rel == "." || strings.HasPrefix(rel, "../") {
		return "", fmt.Errorf("%s is outside data dir %s", absLocal, absBase)
	}
	if m.prefix != "" {
		return path.Join(m.prefix, rel), nil
	}
	return rel, nil
}

func cleanKey(key string) string {
	key = strings.TrimPrefix(strings.TrimSpace(filepath.ToSlash(key)), "/")
	if key == "" {
		return ""
	}
	clean := strings.TrimPrefix(path.Clean("/"+key), "/")
	if clean == "." || strings.HasPrefix(clean, "../") {
		return ""
	}
	return clean
}

func escapeKey(key string) string {
	parts := strings.Split(key, "/")
	for i := range parts {
		parts[i] = url.PathEscape(parts[i])
	}
	return strings.Join(parts, "/")
}

func signingKey(secret, date string) []byte {
	k := hmacSHA256([]byte("AWS4"+secret), []byte(date))
	k = hmacSHA256(k, []byte(sigV4Region))
	k = hmacSHA256(k, []byte(sigV4Service))
	return hmacSHA256(k, []byte("aws4_request"))
}

func hmacSHA256(key, data []byte) []byte {
	h := hmac.New(sha256.New, key)
	_, _ = h.Write(data)
	return h.Sum(nil)
}
