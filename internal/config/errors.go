package config

import "errors"

var (
	ErrEnvParse      = errors.New("не удалось прочитать переменные окружения")
	ErrFlagParse     = errors.New("не удалось прочитать флаги командной строки")
	ErrInvalidConfig = errors.New("некорректная конфигурация")
)
