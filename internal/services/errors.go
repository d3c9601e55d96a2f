package services

import (
	apperrors "solareda/internal/errors"
)

// datasetNotFound reports an unknown or expired dataset handle.
func datasetNotFound(id string) *apperrors.AppError {
	return apperrors.NewNotFoundError("dataset " + id).WithContext("dataset_id", id)
}
