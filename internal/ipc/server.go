// Package ipc 通过 unix socket 向展示端广播当前歌词行，每条消息一行 JSON
package ipc

import (
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"sync"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"lyrics-etymology/internal/model"
	"lyrics-etymology/pkg/fileutil"
)

type State string

const (
	StatePending  State = "pending"  // 歌词行已激活，分析尚未完成
	StateEnriched State = "enriched" // 分析结果已就绪
	StateIdle     State = "idle"     // 当前没有歌词行
	StateFinished State = "finished" // 歌曲结束
)

// Message socket 协议中的一行消息
type Message struct {
	State State               `json:"state"`
	Text  string              `json:"text,omitempty"`
	Line  *model.EnrichedLine `json:"line,omitempty"`
}

type Server struct {
	socketPath   string
	mirrorPath   string
	listener     net.Listener
	lockFile     *os.File
	lockFilePath string
	log          zerolog.Logger

	mu          sync.Mutex
	clientConns map[net.Conn]struct{}
	last        []byte
}

// NewServer 创建服务端；mirrorPath 非空时每次广播的歌词文本也会写入该文件
func NewServer(socketPath, mirrorPath string) *Server {
	return &Server{
		socketPath:   socketPath,
		mirrorPath:   mirrorPath,
		clientConns:  make(map[net.Conn]struct{}),
		lockFilePath: socketPath + ".lock",
		log:          log.With().Str("component", "ipc").Logger(),
	}
}

func (s *Server) checkAndCleanOldLock() {
	content, err := os.ReadFile(s.lockFilePath)
	if errors.Is(err, os.ErrNotExist) {
		return
	}
	if err != nil {
		s.log.Warn().Err(err).Msg("Failed to read lock file, removing it")
		os.Remove(s.lockFilePath)
		return
	}

	pidStr := strings.TrimSpace(string(content))
	pid, err := strconv.Atoi(pidStr)
	if err != nil {
		s.log.Warn().Str("pid_str", pidStr).Msg("Invalid PID in lock file, removing it")
		os.Remove(s.lockFilePath)
		return
	}

	// kill(pid, 0) 只检查进程是否存在
	if syscall.Kill(pid, 0) != nil {
		s.log.Info().Int("old_pid", pid).Msg("Process in lock file is not running, removing lock file")
		os.Remove(s.lockFilePath)
		return
	}
	s.log.Info().Int("existing_pid", pid).Msg("Another process is still running")
}

func (s *Server) acquireLock() error {
	s.checkAndCleanOldLock()

	file, err := os.OpenFile(s.lockFilePath, os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to create lock file: %w", err)
	}

	if err := syscall.Flock(int(file.Fd()), syscall.LOCK_EX|syscall.LOCK_NB); err != nil {
		file.Close()
		if errors.Is(err, syscall.EWOULDBLOCK) {
			return errors.New("another lyrics-etymology instance is already running")
		}
		return fmt.Errorf("failed to acquire lock: %w", err)
	}

	// 拿到锁之后再清空，避免抹掉正在运行实例的 PID
	err = file.Truncate(0)
	if err == nil {
		_, err = fmt.Fprintf(file, "%d\n", os.Getpid())
	}
	if err != nil {
		syscall.Flock(int(file.Fd()), syscall.LOCK_UN)
		file.Close()
		return fmt.Errorf("failed to write PID to lock file: %w", err)
	}

	s.lockFile = file
	s.log.Info().Str("lock_file", s.lockFilePath).Int("pid", os.Getpid()).Msg("Acquired process lock")
	return nil
}

func (s *Server) releaseLock() {
	if s.lockFile == nil {
		return
	}
	syscall.Flock(int(s.lockFile.Fd()), syscall.LOCK_UN)
	s.lockFile.Close()
	os.Remove(s.lockFilePath)
	s.log.Info().Str("lock_file", s.lockFilePath).Msg("Released process lock")
	s.lockFile = nil
}

func (s *Server) Start() error {
	// 先获取进程锁，避免两个实例抢同一个 socket
	if err := s.acquireLock(); err != nil {
		return err
	}

	if err := os.RemoveAll(s.socketPath); err != nil {
		s.releaseLock()
		return err
	}

	listener, err := net.Listen("unix", s.socketPath)
	if err != nil {
		s.releaseLock()
		return err
	}
	s.listener = listener

	s.log.Info().Str("socket_path", s.socketPath).Msg("IPC server listening")
	go s.acceptConnections()
	return nil
}

func (s *Server) acceptConnections() {
	for {
		conn, err := s.listener.Accept()
		if errors.Is(err, net.ErrClosed) {
			return
		}
		if err != nil {
			s.log.Error().Err(err).Msg("Failed to accept IPC connection")
			continue
		}
		go s.handleConnection(conn)
	}
}

func (s *Server) handleConnection(conn net.Conn) {
	s.mu.Lock()
	s.clientConns[conn] = struct{}{}
	// 新客户端先收到最近一条消息
	if s.last != nil {
		if _, err := conn.Write(s.last); err != nil {
			s.log.Error().Err(err).Msg("Failed to send initial message")
		}
	}
	s.mu.Unlock()

	s.log.Info().Msg("Client connected")

	buf := make([]byte, 1)
	for {
		if _, err := conn.Read(buf); err != nil {
			break
		}
	}

	s.mu.Lock()
	delete(s.clientConns, conn)
	s.mu.Unlock()
	conn.Close()
	s.log.Info().Msg("Client disconnected")
}

// Publish 把 msg 发送给所有已连接的客户端，并保存下来给之后连接的客户端
func (s *Server) Publish(msg Message) {
	if msg.Text == "" && msg.Line != nil {
		msg.Text = msg.Line.Text
	}
	data, err := json.Marshal(msg)
	if err != nil {
		s.log.Error().Err(err).Msg("Failed to encode message")
		return
	}
	data = append(data, '\n')

	if s.mirrorPath != "" && msg.Text != "" {
		if err := fileutil.WriteFileOverwrite(s.mirrorPath, []byte(msg.Text+"\n"), 0644); err != nil {
			s.log.Warn().Err(err).Str("path", s.mirrorPath).Msg("Failed to write mirror file")
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.last = data
	for conn := range s.clientConns {
		if _, err := conn.Write(data); err != nil {
			s.log.Error().Err(err).Msg("Failed to write to client, removing")
			conn.Close()
			delete(s.clientConns, conn)
		}
	}
}

func (s *Server) Close() {
	if s.listener != nil {
		s.listener.Close()
	}
	s.mu.Lock()
	for conn := range s.clientConns {
		conn.Close()
	}
	s.mu.Unlock()
	s.releaseLock()
}
