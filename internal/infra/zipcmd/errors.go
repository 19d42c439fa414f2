package zipcmd

import "errors"

var (
	ErrBinaryNotFound = errors.New("утилита архивации не найдена")
	ErrPipe           = errors.New("не удалось подключиться к выводу архиватора")
	ErrStart          = errors.New("не удалось запустить архиватор")
)
