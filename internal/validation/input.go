package validation

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// Константы валидации
const (
	MinJobTitleLength       = 3
	MaxJobTitleLength       = 200
	MinJobDescriptionLength = 10
	MaxJobDescriptionLength = 5000
	MinCoverLetterLength    = 10
	MaxCoverLetterLength    = 2000

	// Цены в минорных единицах (копейках)
	MinPrice = int64(100)
	MaxPrice = int64(10_000_000_000) // 100 миллионов
)

// ValidateLength проверяет длину строки.
func ValidateLength(fieldName, value string, min, max int) error {
	length := utf8.RuneCountInString(value)
	if min > 0 && length < min {
		return fmt.Errorf("%s должен быть не менее %d символов", fieldName, min)
	}
	if max > 0 && length > max {
		return fmt.Errorf("%s должен быть не более %d символов", fieldName, max)
	}
	return nil
}

// ValidateNonEmpty проверяет, что строка не пустая.
func ValidateNonEmpty(fieldName, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%s не может быть пустым", fieldName)
	}
	return nil
}

// ValidateJobTitle проверяет заголовок задания.
func ValidateJobTitle(title string) error {
	if title == "" {
		return fmt.Errorf("заголовок задания обязателен")
	}

	title = strings.TrimSpace(title)

	if err := ValidateLength("заголовок задания", title, MinJobTitleLength, MaxJobTitleLength); err != nil {
		return err
	}

	return nil
}

// ValidateJobDescription проверяет описание задания.
func ValidateJobDescription(description string) error {
	if description == "" {
		return fmt.Errorf("описание задания обязательно")
	}

	description = strings.TrimSpace(description)

	if err := ValidateLength("описание задания", description, MinJobDescriptionLength, MaxJobDescriptionLength); err != nil {
		return err
	}

	return nil
}

// ValidateCoverLetter проверяет сопроводительное письмо отклика.
func ValidateCoverLetter(coverLetter string) error {
	if coverLetter == "" {
		return nil
	}

	coverLetter = strings.TrimSpace(coverLetter)

	if err := ValidateLength("сопроводительное письмо", coverLetter, MinCoverLetterLength, MaxCoverLetterLength); err != nil {
		return err
	}

	return nil
}

// ValidatePrice проверяет цену в минорных единицах.
func ValidatePrice(price int64) error {
	if price < MinPrice {
		return fmt.Errorf("цена должна быть не менее %d.%02d", MinPrice/100, MinPrice%100)
	}
	if price > MaxPrice {
		return fmt.Errorf("цена не может превышать %d", MaxPrice/100)
	}
	return nil
}

// ValidateDeadline проверяет срок выполнения задания.
func ValidateDeadline(deadline *time.Time) error {
	if deadline == nil {
		return nil
	}
	if deadline.Before(time.Now()) {
		return fmt.Errorf("срок выполнения не может быть в прошлом")
	}
	return nil
}
