package journal

import (
	"bufio"
	"encoding/json"
	"errors"
	"io"
	"io/fs"
	"os"
	"sync"
)

// 自己定義常用的權限常量
const (
	// rw-r--r-- (擁有者讀寫，其他人唯讀) - 適用於大多數檔案
	FileModeReadOnly fs.FileMode = 0644

	// rw------- (只有擁有者可讀寫) - 適用於私鑰、機密檔
	FileModePrivate fs.FileMode = 0600
)

// Journal 以 JSON Lines 格式追加寫入的紀錄檔
type Journal struct {
	file *os.File
	w    *bufio.Writer
	mu   sync.Mutex
	// syncEachWrite 每筆都刷入硬碟
	syncEachWrite bool
}

// Option 設定 Journal
type Option func(*Journal)

// WithSyncEachWrite 每次 Write 後都 fsync，較慢但不會遺失已回報成功的紀錄
func WithSyncEachWrite() Option {
	return func(j *Journal) {
		j.syncEachWrite = true
	}
}

// Open 開啟或建立一個 journal 檔案
// O_RDWR讀寫模式
// O_APPEND 每次寫入時自動跳到文件末尾
// O_CREATE 如果文件不存在則建立
func Open(path string, opts ...Option) (*Journal, error) {
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_RDWR, FileModeReadOnly)
	if err != nil {
		return nil, err
	}
	j := &Journal{
		file: file,
		w:    bufio.NewWriter(file),
	}
	for _, opt := range opts {
		opt(j)
	}
	return j, nil
}

// Write 寫入一筆資料
func (j *Journal) Write(v any) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if err := json.NewEncoder(j.w).Encode(v); err != nil {
		return err
	}
	if !j.syncEachWrite {
		return nil
	}
	return j.flushLocked()
}

// Flush 將緩衝寫出並刷入硬碟
func (j *Journal) Flush() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.flushLocked()
}

func (j *Journal) flushLocked() error {
	if err := j.w.Flush(); err != nil {
		return err
	}
	return j.file.Sync()
}

// Close 刷出緩衝後關閉檔案
func (j *Journal) Close() error {
	flushErr := j.Flush()
	closeErr := j.file.Close()
	return errors.Join(flushErr, closeErr)
}

// ReadAll 讀取所有資料
// callback 接收每一筆的原始 JSON
// 這樣可以避免一次將所有資料載入記憶體
func (j *Journal) ReadAll(callback func(jsonRaw []byte) error) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	// 先把尚未寫出的資料寫出，才讀得到
	if err := j.w.Flush(); err != nil {
		return err
	}
	// 確保從頭讀取
	if _, err := j.file.Seek(0, io.SeekStart); err != nil {
		return err
	}

	decoder := json.NewDecoder(j.file)
	for {
		var raw json.RawMessage
		if err := decoder.Decode(&raw); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return err
		}
		if err := callback(raw); err != nil {
			return err
		}
	}
	return nil
}
