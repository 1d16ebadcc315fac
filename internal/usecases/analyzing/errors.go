package analyzing

import "errors"

var (
	// ErrNoCorpusFiles се връща, когато в директорията няма нито един корпус файл
	ErrNoCorpusFiles = errors.New("няма намерени корпус файлове за анализ")

	// ErrNoAnalysis се връща, когато още няма завършен анализ
	ErrNoAnalysis = errors.New("все още няма завършен анализ")

	// ErrRunNotFound се връща при заявка за несъществуващ анализ
	ErrRunNotFound = errors.New("анализът не е намерен")

	// ErrProductNotFound се връща при заявка за продукт извън таблицата
	ErrProductNotFound = errors.New("продуктът не е намерен в таблицата")

	// ErrAllFilesFailed се връща, когато нито един файл не може да бъде прочетен
	ErrAllFilesFailed = errors.New("нито един корпус файл не можа да бъде прочетен")
)
