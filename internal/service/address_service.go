package service

import (
	"strings"

	"github.com/gamedepot/internal/models"
	"github.com/gamedepot/internal/repository"

	"gorm.io/gorm"
)

// AddressService 收货地址服务
type AddressService struct {
	addressRepo repository.AddressRepository
}

// NewAddressService 创建地址服务
func NewAddressService(addressRepo repository.AddressRepository) *AddressService {
	return &AddressService{addressRepo: addressRepo}
}

// List 用户地址列表
func (s *AddressService) List(userID uint) ([]models.Address, error) {
	return s.addressRepo.ListByUser(userID)
}

// Get 获取用户地址
func (s *AddressService) Get(id, userID uint) (*models.Address, error) {
	address, err := s.addressRepo.GetByIDAndUser(id, userID)
	if err != nil {
		return nil, err
	}
	if address == nil {
		return nil, ErrAddressNotFound
	}
	return address, nil
}

// Create 创建地址，设为默认时清除原默认标记
func (s *AddressService) Create(address *models.Address) error {
	if err := validateAddress(address); err != nil {
		return err
	}
	return models.DB.Transaction(func(tx *gorm.DB) error {
		repo := s.addressRepo.WithTx(tx)
		if address.IsDefault {
			if err := repo.ClearDefault(address.UserID); err != nil {
				return err
			}
		}
		return repo.Create(address)
	})
}

// Update 更新地址
func (s *AddressService) Update(address *models.Address) error {
	if address == nil || address.ID == 0 {
		return ErrInvalidParams
	}
	if err := validateAddress(address); err != nil {
		return err
	}
	existing, err := s.addressRepo.GetByIDAndUser(address.ID, address.UserID)
	if err != nil {
		return err
	}
	if existing == nil {
		return ErrAddressNotFound
	}
	return models.DB.Transaction(func(tx *gorm.DB) error {
		repo := s.addressRepo.WithTx(tx)
		if address.IsDefault {
			if err := repo.ClearDefault(address.UserID); err != nil {
				return err
			}
		}
		return repo.Update(address)
	})
}

// Delete 删除地址
func (s *AddressService) Delete(id, userID uint) error {
	address, err := s.addressRepo.GetByIDAndUser(id, userID)
	if err != nil {
		return err
	}
	if address == nil {
		return ErrAddressNotFound
	}
	return s.addressRepo.Delete(id, userID)
}

func validateAddress(address *models.Address) error {
	if address == nil || address.UserID == 0 {
		return ErrInvalidParams
	}
	if strings.TrimSpace(address.Name) == "" ||
		strings.TrimSpace(address.Phone) == "" ||
		strings.TrimSpace(address.Line1) == "" ||
		strings.TrimSpace(address.City) == "" ||
		strings.TrimSpace(address.Pincode) == "" {
		return ErrInvalidParams
	}
	return nil
}
