package authRepository

const (
	queryCreateUser = `
INSERT INTO Users (id, email, name, password, created_at)
VALUES (:id, :email, :name, :password, :created_at)`

	queryGetById = `
SELECT id, email, name, password, profile_photo_url, created_at, updated_at
FROM Users
    WHERE id = :id`

	queryGetByEmail = `
SELECT id, email, name, password, profile_photo_url, created_at, updated_at
FROM Users
    WHERE email = :email`

	queryUpdateProfilePhoto = `
		UPDATE Users
		SET profile_photo_url = :profile_photo_url,
			updated_at = :updated_at
		WHERE id = :id`

	queryDeleteUser = `
DELETE FROM Users
WHERE id = :id`
)
