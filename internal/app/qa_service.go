package app

import (
	"context"
	"errors"
	"strings"

	"pdfinsight/internal/model"
	"pdfinsight/internal/repository"
	"pdfinsight/internal/retrieval"
)

type QAService struct {
	docRepo   *repository.DocumentRepository
	chunkRepo *repository.ChunkRepository
	usageRepo *repository.UsageRepository
	answerer  Answerer

	topK       int
	maxChars   int
	dailyLimit int
}

func NewQAService(
	docRepo *repository.DocumentRepository,
	chunkRepo *repository.ChunkRepository,
	usageRepo *repository.UsageRepository,
	answerer Answerer,
	topK, maxChars, dailyLimit int,
) *QAService {
	if topK <= 0 {
		topK = 4
	}
	if maxChars <= 0 {
		maxChars = 8000
	}
	return &QAService{
		docRepo:    docRepo,
		chunkRepo:  chunkRepo,
		usageRepo:  usageRepo,
		answerer:   answerer,
		topK:       topK,
		maxChars:   maxChars,
		dailyLimit: dailyLimit,
	}
}

// AnswerSource points back at the chunk an answer drew from.
type AnswerSource struct {
	ChunkIndex int `json:"chunk_index"`
	PageStart  int `json:"page_start"`
	PageEnd    int `json:"page_end"`
	Score      int `json:"score"`
}

type AnswerResult struct {
	Answer  string         `json:"answer"`
	Sources []AnswerSource `json:"sources"`
}

// Ask answers a question about one document from its stored chunks. The
// question consumes QA quota even when retrieval finds nothing; the model
// (or mock) still produces a "not in the document" style answer then.
func (s *QAService) Ask(ctx context.Context, ownerID, documentID uint, question string) (*AnswerResult, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, ErrInvalidInput
	}

	doc, err := s.docRepo.GetByIDAndOwner(documentID, ownerID)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, ErrNotFound
	}

	if _, err := s.usageRepo.Consume(ownerID, model.UsageKindQA, s.dailyLimit); err != nil {
		if errors.Is(err, repository.ErrQuotaExceeded) {
			return nil, ErrQuotaExceeded
		}
		return nil, err
	}

	chunks, err := s.chunkRepo.ListByDocumentID(documentID)
	if err != nil {
		return nil, err
	}

	scored := retrieval.TopChunks(question, chunks, s.topK)
	contextText := retrieval.BuildContext(scored, s.maxChars)

	answer, err := s.answerer.Answer(ctx, question, contextText)
	if err != nil {
		return nil, &AnalyzerError{Err: err}
	}

	sources := make([]AnswerSource, 0, len(scored))
	for _, sc := range scored {
		sources = append(sources, AnswerSource{
			ChunkIndex: sc.Chunk.ChunkIndex,
			PageStart:  sc.Chunk.PageStart,
			PageEnd:    sc.Chunk.PageEnd,
			Score:      sc.Score,
		})
	}

	return &AnswerResult{
		Answer:  answer,
		Sources: sources,
	}, nil
}
