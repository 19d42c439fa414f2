package archive_service

import "errors"

var (
	ErrArchiveNotFound = errors.New("Архив не существует или был удален")
	ErrInterrupted     = errors.New("загрузка архива прервана")

	ErrArchiverStart  = errors.New("не удалось запустить архиватор")
	ErrArchiverRead   = errors.New("не удалось прочитать вывод архиватора")
	ErrArchiverFailed = errors.New("архиватор завершился с ошибкой")

	ErrRegister = errors.New("не удалось зарегистрировать загрузку")
)
