package service

import (
	"errors"
	"time"

	"polls-service/cache"
	"polls-service/database"
	"polls-service/models"

	"gorm.io/gorm"
)

// PollService manages the poll lifecycle and enforces the date invariants:
// end date must not precede start date, and a start date, once set, is
// immutable.
type PollService struct {
	db *gorm.DB
}

// NewPollService creates a poll service.
func NewPollService(db *gorm.DB) *PollService {
	return &PollService{db: db}
}

// PollInput carries poll fields for create and partial update. A nil field
// was not supplied by the client and is left untouched.
type PollInput struct {
	Name        *string
	StartDate   *time.Time
	EndDate     *time.Time
	Description *string
}

// todayStart returns midnight of the current day. A poll whose end date is
// not strictly after it has expired.
func todayStart() time.Time {
	now := time.Now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}

// visible scopes poll queries to non-deleted polls that have not expired.
// Reads, updates and deletes all go through it: an expired poll behaves
// exactly like a missing one.
func (s *PollService) visible() *gorm.DB {
	return s.db.Model(&models.Poll{}).Scopes(database.Alive).Where("end_date > ?", todayStart())
}

// List returns the visible polls ordered by id ascending.
func (s *PollService) List() ([]models.Poll, error) {
	var polls []models.Poll
	if err := s.visible().Order("id").Find(&polls).Error; err != nil {
		return nil, err
	}
	return polls, nil
}

// Get returns a single visible poll, consulting the cache first.
func (s *PollService) Get(id uint) (*models.Poll, error) {
	if poll := cache.GetPoll(id); poll != nil {
		if !poll.IsDelete && poll.EndDate != nil && poll.EndDate.After(todayStart()) {
			return poll, nil
		}
		cache.InvalidatePoll(id)
	}

	var poll models.Poll
	if err := s.visible().First(&poll, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	cache.SetPoll(&poll)
	return &poll, nil
}

// validateDates checks end >= start on the merged values. Stored values win
// over blank incoming ones, so a partial update is validated against the
// state it would produce.
func validateDates(start, end *time.Time) error {
	if start != nil && end != nil && end.Before(*start) {
		return NewValidationError("End date early than start date")
	}
	return nil
}

// Create validates the date pair and persists a new poll.
func (s *PollService) Create(in PollInput) (*models.Poll, error) {
	if err := validateDates(in.StartDate, in.EndDate); err != nil {
		return nil, err
	}

	poll := models.Poll{
		StartDate: in.StartDate,
		EndDate:   in.EndDate,
	}
	if in.Name != nil {
		poll.Name = *in.Name
	}
	if in.Description != nil {
		poll.Description = *in.Description
	}

	if err := s.db.Create(&poll).Error; err != nil {
		return nil, err
	}
	return &poll, nil
}

// Update applies a partial update. Setting a start date when one is already
// stored is rejected regardless of value.
func (s *PollService) Update(id uint, in PollInput) (*models.Poll, error) {
	var poll models.Poll
	if err := s.visible().First(&poll, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if poll.StartDate != nil && in.StartDate != nil {
		return nil, NewValidationError("Can't change start date if start date exist")
	}

	// Validate the merged state: supplied fields win, blanks keep the
	// stored value. A stored start survives the merge unchanged because
	// setting one over it was rejected above.
	start := poll.StartDate
	if start == nil {
		start = in.StartDate
	}
	end := poll.EndDate
	if in.EndDate != nil {
		end = in.EndDate
	}
	if err := validateDates(start, end); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if in.Name != nil {
		updates["name"] = *in.Name
	}
	if in.StartDate != nil {
		updates["start_date"] = *in.StartDate
	}
	if in.EndDate != nil {
		updates["end_date"] = *in.EndDate
	}
	if in.Description != nil {
		updates["description"] = *in.Description
	}
	if len(updates) > 0 {
		if err := s.db.Model(&poll).Updates(updates).Error; err != nil {
			return nil, err
		}
		if err := s.db.First(&poll, id).Error; err != nil {
			return nil, err
		}
	}

	cache.InvalidatePoll(id)
	return &poll, nil
}

// Delete soft-deletes a poll. Questions and submissions are left untouched.
func (s *PollService) Delete(id uint) error {
	var poll models.Poll
	if err := s.visible().First(&poll, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	if err := s.db.Model(&poll).Update("is_delete", true).Error; err != nil {
		return err
	}

	cache.InvalidatePoll(id)
	return nil
}
