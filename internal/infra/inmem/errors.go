package inmem

import "errors"

var (
	ErrStreamNotFound = errors.New("загрузка не найдена")
	ErrStreamNil      = errors.New("загрузка не может быть nil")
	ErrStreamIDEmpty  = errors.New("ID загрузки не может быть пустым")
	ErrStreamExists   = errors.New("загрузка с таким ID уже зарегистрирована")
	ErrContextDone    = errors.New("отмена контекста")
)
