package utils

import (
	"crypto/rand"
	"math/big"

	"golang.org/x/crypto/bcrypt"
)

// HashSenha gera o hash bcrypt armazenado no lugar da senha.
func HashSenha(senha string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(senha), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerificarSenha confere a senha em texto puro contra o hash armazenado.
func VerificarSenha(hash, senha string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(senha)) == nil
}

// Alfabeto sem 0/O, 1/l/I: a senha provisória é repassada ao prestador
// pelo admin, fora do sistema.
const alfabetoSenha = "abcdefghjkmnpqrstuvwxyzABCDEFGHJKMNPQRSTUVWXYZ23456789"

// GerarSenhaTemporaria monta a senha provisória entregue no reset feito
// pelo admin.
func GerarSenhaTemporaria() (string, error) {
	senha := make([]byte, 12)
	max := big.NewInt(int64(len(alfabetoSenha)))
	for i := range senha {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		senha[i] = alfabetoSenha[n.Int64()]
	}
	return string(senha), nil
}
