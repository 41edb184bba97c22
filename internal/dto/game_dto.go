package dto

import "learning-timer/internal/models"

type AnswerRequest struct {
	Answer string `json:"answer" binding:"required"`
}

type AnswerResponse struct {
	Correct bool            `json:"correct"`
	State   models.Snapshot `json:"state"`
}
