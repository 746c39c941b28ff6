package homework

import (
	"homework-telegram-bot/internal/types"
	"homework-telegram-bot/lib/translation"
)

const statusChangedTemplate = "Изменился статус проверки работы \"%s\". %s"

// Verdicts maps every review status the API reports to the sentence sent to
// the chat. Statuses outside this table are errors.
var Verdicts = map[string]string{
	"approved":  "Работа проверена: ревьюеру всё понравилось. Ура!",
	"reviewing": "Работа взята на проверку ревьюером.",
	"rejected":  "Работа проверена: у ревьюера есть замечания.",
}

// ParseStatus builds the chat message announcing the status of a homework.
func ParseStatus(hw types.Homework) (string, error) {
	name, _ := hw["homework_name"].(string)
	status, _ := hw["status"].(string)
	if name == "" || status == "" {
		return "", &RecordError{Kind: ErrMalformedHomework, Record: hw}
	}

	verdict, ok := Verdicts[status]
	if !ok {
		return "", &RecordError{Kind: ErrUnknownVerdict, Record: hw, Status: status}
	}

	return translation.Translate(statusChangedTemplate, name, translation.Translate(verdict)), nil
}
