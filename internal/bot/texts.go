package bot

import (
	"errors"
	"fmt"

	"bindcast/internal/domain"
)

const (
	textStart = "Привет. Я буду помогать вам постить вложения в ваши каналы.\n" +
		"Перед началом работы добавьте бота в ваши каналы и через меню привяжите каналы " +
		"к вашему аккаунту. Вызвать меню можно командой /menu"
	textMainMenu        = "Главное меню"
	textBindingPrompt   = "Добавьте бота в ваш канал и перешлите одно любое сообщение из этого канала в этот чат"
	textUserChannels    = "Список подключенных каналов"
	textChannelMenu     = "Меню канала"
	textEditPrompt      = "Введите новый текст сообщения для канала"
	textMenuClosed      = "Открыть меню можно командой /menu"
	textNotRepost       = "Сообщение не является репостом из другого канала"
	textUnsupportedKind = "Неподдерживаемый тип вложения. Я умею публиковать анимации, фото и видео"
	textNotRegistered   = "Сначала отправьте команду /start"

	btnBinding         = "Привязать канал"
	btnUserChannels    = "Подключенные каналы"
	btnCloseMenu       = "Закрыть меню"
	btnEditDescription = "Изменить описание"
	btnRemoveBinding   = "Отвязать канал"
	btnBack            = "Назад"
)

// bindingStatusText converts the outcome of the binding flow into the single
// status line sent before returning to the main menu.
func bindingStatusText(err error, channelTitle string) string {
	switch {
	case err == nil:
		return fmt.Sprintf("Вы привязали канал '%s'", channelTitle)
	case errors.Is(err, domain.ErrChannelNotFound), errors.Is(err, domain.ErrUserNotFound):
		return fmt.Sprintf("Канал '%s' не найден в БД. Добавьте бота в канал еще раз", channelTitle)
	case errors.Is(err, domain.ErrBotNotInChannel):
		return fmt.Sprintf("Бот был удален из канала '%s'", channelTitle)
	case errors.Is(err, domain.ErrNotChannelAdmin):
		return fmt.Sprintf("Вы не являетесь администратором канала '%s'", channelTitle)
	case errors.Is(err, domain.ErrAlreadyExists):
		return fmt.Sprintf("Канал '%s' уже привязан к вашему аккаунту", channelTitle)
	default:
		return "Что-то пошло не так. Попробуйте еще раз"
	}
}

// deliveryWarningText names the channel a fan-out delivery did not reach.
func deliveryWarningText(channelTitle string, botRemoved bool) string {
	if botRemoved {
		return fmt.Sprintf("Невозможно отправить сообщение в канал '%s'. Бот удален из канала", channelTitle)
	}
	return fmt.Sprintf("Невозможно отправить сообщение в канал '%s'. У бота недостаточно прав", channelTitle)
}

func descriptionChangedText(description string) string {
	return fmt.Sprintf("Описание изменено. Новое описание '%s'", description)
}
