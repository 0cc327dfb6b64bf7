package entity

// Field names of the users collection. Merge-writes address fields by these names.
const (
	UserFieldUserID          = "userId"
	UserFieldEmail           = "email"
	UserFieldUsername        = "username"
	UserFieldUserType        = "userType"
	UserFieldAddress         = "address"
	UserFieldIntroduction    = "introduction"
	UserFieldProfileImageURL = "profileImageUrl"
)

type UserProfile struct {
	UserID          string `json:"user_id" firestore:"userId,omitempty"`
	Email           string `json:"email,omitempty" firestore:"email,omitempty"`
	Username        string `json:"username" firestore:"username,omitempty"`
	UserType        Role   `json:"user_type" firestore:"userType,omitempty"`
	Address         string `json:"address,omitempty" firestore:"address,omitempty"`
	Introduction    string `json:"introduction,omitempty" firestore:"introduction,omitempty"`
	ProfileImageURL string `json:"profile_image_url,omitempty" firestore:"profileImageUrl,omitempty"`
}

// Role returns the stored user type, falling back to individual when it is absent or unknown.
func (u *UserProfile) Role() Role {
	if r, err := ParseRole(string(u.UserType)); err == nil {
		return r
	}
	return RoleIndividual
}
