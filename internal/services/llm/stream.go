package llm

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/sashabaranov/go-openai"
)

// textStream adapts a chat completion stream to service.TextStream.
// Chunks without content (role headers, finish markers) are skipped.
type textStream struct {
	stream *openai.ChatCompletionStream
	once   sync.Once
}

func (s *textStream) Recv() (string, error) {
	for {
		chunk, err := s.stream.Recv()
		if errors.Is(err, io.EOF) {
			return "", io.EOF
		}
		if err != nil {
			return "", fmt.Errorf("chat stream: %w", describe(err))
		}
		if len(chunk.Choices) == 0 {
			continue
		}
		if text := chunk.Choices[0].Delta.Content; text != "" {
			return text, nil
		}
	}
}

func (s *textStream) Close() error {
	s.once.Do(func() { s.stream.Close() })
	return nil
}
