package main

import (
	"flag"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ScoringServer exposes a frozen model over HTTP: a small interactive
// form for humans and a JSON endpoint for programs. Scoring is read-only
// over frozen weights, so concurrent requests are safe.
type ScoringServer struct {
	router *gin.Engine
	model  *SimilarityModel
	vocab  *Vocabulary
	logger *zap.Logger
}

// NewScoringServer wires the routes onto a gin engine.
func NewScoringServer(model *SimilarityModel, vocab *Vocabulary, logger *zap.Logger) *ScoringServer {
	router := gin.Default()

	s := &ScoringServer{
		router: router,
		model:  model,
		vocab:  vocab,
		logger: logger,
	}

	router.GET("/", s.handleForm)
	router.POST("/predict", s.handlePredict)

	return s
}

// Run starts the HTTP server on addr.
func (s *ScoringServer) Run(addr string) error {
	s.logger.Info("scoring server listening", zap.String("addr", addr))
	return s.router.Run(addr)
}

type predictRequest struct {
	Question1 string `json:"question1" form:"question1" binding:"required"`
	Question2 string `json:"question2" form:"question2" binding:"required"`
}

type predictResponse struct {
	Probability float64 `json:"probability"`
}

func (s *ScoringServer) handlePredict(c *gin.Context) {
	var req predictRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	prob, err := PredictQuestionPair(s.model, s.vocab, req.Question1, req.Question2)
	if err != nil {
		s.logger.Error("prediction failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, predictResponse{Probability: prob})
}

const formPage = `<!DOCTYPE html>
<html>
<head><title>Duplicate Question Checker</title></head>
<body>
  <h1>Duplicate Question Checker</h1>
  <form id="f">
    <p><input name="question1" size="80" placeholder="First question"></p>
    <p><input name="question2" size="80" placeholder="Second question"></p>
    <p><button type="submit">Score</button></p>
  </form>
  <p id="result"></p>
  <script>
    document.getElementById("f").addEventListener("submit", async (e) => {
      e.preventDefault();
      const data = Object.fromEntries(new FormData(e.target));
      const resp = await fetch("/predict", {
        method: "POST",
        headers: {"Content-Type": "application/json"},
        body: JSON.stringify(data),
      });
      const body = await resp.json();
      document.getElementById("result").textContent = resp.ok
        ? "Duplicate probability: " + body.probability.toFixed(4)
        : "Error: " + body.error;
    });
  </script>
</body>
</html>`

func (s *ScoringServer) handleForm(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(formPage))
}

// RunServeCommand loads saved artifacts and serves the scoring form.
func RunServeCommand(args []string) error {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)

	modelPath := fs.String("model", "model.bin", "Trained model path")
	vocabPath := fs.String("vocab", "vocab.txt", "Vocabulary path")
	addr := fs.String("addr", ":8080", "Listen address")

	if err := fs.Parse(args); err != nil {
		return err
	}

	logger, err := newLogger(true)
	if err != nil {
		return err
	}
	defer logger.Sync()

	vocab, err := LoadVocabulary(*vocabPath)
	if err != nil {
		return err
	}
	model, err := LoadSimilarityModel(*modelPath)
	if err != nil {
		return err
	}
	logger.Info("artifacts loaded",
		zap.String("model", *modelPath),
		zap.String("vocab", *vocabPath),
		zap.String("variant", string(model.Config().Variant)))

	return NewScoringServer(model, vocab, logger).Run(*addr)
}
