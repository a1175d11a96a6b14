package password

import (
	"golang.org/x/crypto/bcrypt"
)

// defaultCost bcrypt 迭代强度，注册时统一使用
const defaultCost = bcrypt.DefaultCost

// Hash 按默认强度生成密码哈希
func Hash(plain string) (string, error) {
	return HashWithCost(plain, defaultCost)
}

// HashWithCost 按指定强度生成密码哈希，强度越界时回落到默认值
func HashWithCost(plain string, cost int) (string, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = defaultCost
	}
	bytes, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// Verify 校验明文密码是否与哈希匹配
func Verify(plain, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
