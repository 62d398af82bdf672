package handlers

const (
	// Формат ввода времени спавна, всегда UTC
	inputTimeLayout = "2006-01-02 15:04"
	// Формат вывода времени спавна
	displayTimeLayout = "Jan 2, 2006 3:04 PM"

	// Строк таблицы в одном сообщении
	tableChunkSize = 15

	msgInternalError = "❌ Something went wrong. Please try again later."
)
