package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/simuconcursos/simulado-backend/internal/catalog"
	"github.com/simuconcursos/simulado-backend/internal/config"
	"github.com/simuconcursos/simulado-backend/internal/database"
	"github.com/simuconcursos/simulado-backend/internal/logger"
	"github.com/simuconcursos/simulado-backend/internal/model"
	"github.com/simuconcursos/simulado-backend/internal/repository"
	"github.com/simuconcursos/simulado-backend/internal/service"
)

// seedQuestion pairs a sample question with the position it belongs to; an
// empty position name puts it in the general bank.
type seedQuestion struct {
	position string
	req      model.CreateQuestionRequest
}

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)

	ctx := context.Background()

	// ─── Connect to PostgreSQL ─────────────────────────────────────────
	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	examRepo := repository.NewExamRepository(pool)
	questionRepo := repository.NewQuestionRepository(pool)
	questionService := service.NewQuestionService(questionRepo, log)

	// ─── Exams and Positions ───────────────────────────────────────────
	positions := map[string]*model.Position{}
	exams := map[string][]string{
		"Câmara dos Deputados": {"Policial Legislativo", "Fiscal"},
		"SEFAZ PA":             {"Fiscal de Receitas Estaduais"},
	}
	for examName, positionNames := range exams {
		exam := model.Exam{Name: examName}
		if err := examRepo.CreateExam(ctx, &exam); err != nil {
			log.Fatal().Err(err).Str("exam", examName).Msg("Failed to create exam")
		}
		for _, posName := range positionNames {
			pos := model.Position{ExamID: exam.ID, Name: posName}
			if err := examRepo.CreatePosition(ctx, &pos); err != nil {
				log.Fatal().Err(err).Str("position", posName).Msg("Failed to create position")
			}
			positions[posName] = &pos
		}
	}
	fmt.Printf("Seeded %d exams\n", len(exams))

	// ─── Questions ─────────────────────────────────────────────────────
	seeded, skipped := 0, 0
	for _, sq := range sampleQuestions() {
		if name := sq.position; name != "" {
			if pos, ok := positions[name]; ok {
				sq.req.PositionID = &pos.ID
			}
		}
		if _, err := questionService.Create(ctx, sq.req); err != nil {
			if errors.Is(err, catalog.ErrConflict) {
				skipped++
				continue
			}
			log.Fatal().Err(err).Msg("Failed to seed question")
		}
		seeded++
	}

	fmt.Printf("Seeded %d questions (%d already present)\n", seeded, skipped)
}

func sampleQuestions() []seedQuestion {
	return []seedQuestion{
		{
			req: model.CreateQuestionRequest{
				Statement: "Assinale a alternativa em que todos os vocábulos estejam acentuados pela mesma regra:",
				Options: map[string]string{
					"A": "vênus, hífen, fáceis",
					"B": "saúde, egoísmo, atribuí-lo",
					"C": "têm, convêm, mantém",
					"D": "público, parágrafo, ética",
				},
				Correct: "D",
				Subject: "Português",
			},
		},
		{
			req: model.CreateQuestionRequest{
				Statement: "O servidor público que agir com dolo ou culpa responderá por seus atos perante a administração. Isso se refere à responsabilidade:",
				Options: map[string]string{
					"A": "Penal",
					"B": "Civil",
					"C": "Administrativa",
					"D": "Política",
				},
				Correct: "C",
				Subject: "Direito Administrativo",
			},
		},
		{
			req: model.CreateQuestionRequest{
				Statement: "Qual o valor de x na equação 2x + 10 = 30?",
				Options: map[string]string{
					"A": "5",
					"B": "10",
					"C": "15",
					"D": "20",
				},
				Correct: "B",
				Subject: "Matemática",
			},
		},
		{
			position: "Policial Legislativo",
			req: model.CreateQuestionRequest{
				Statement: "A Constituição Federal de 1988 é classificada como:",
				Options: map[string]string{
					"A": "Outorgada",
					"B": "Promulgada",
					"C": "Cesarista",
					"D": "Dualista",
				},
				Correct: "B",
				Subject: "Direito Constitucional",
			},
		},
		{
			position: "Fiscal de Receitas Estaduais",
			req: model.CreateQuestionRequest{
				Statement: "Sinônimo de 'Efêmero' é:",
				Options: map[string]string{
					"A": "Duradouro",
					"B": "Passageiro",
					"C": "Eterno",
					"D": "Fixo",
				},
				Correct: "B",
				Subject: "Português",
			},
		},
	}
}
